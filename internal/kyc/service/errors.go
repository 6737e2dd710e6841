package service

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvitationNotFound = errors.New("invitation not found")

	// ErrInvitationInvalid covers unknown, expired, revoked and exhausted
	// links alike, so a customer cannot tell which one applies.
	ErrInvitationInvalid = errors.New("invalid or expired invitation link")

	ErrStepOutOfOrder  = errors.New("step is not the session's current step")
	ErrStepIncomplete  = errors.New("step data is incomplete")
	ErrSessionClosed   = errors.New("session has already been decided")
	ErrInvalidRetake   = errors.New("step cannot be retaken from here")
	ErrLivenessFailed  = errors.New("liveness check failed")
	ErrGPSRequired     = errors.New("location check is required for this organization")
	ErrRiskNotComputed = errors.New("risk has not been computed")
	ErrApproveBlocked  = errors.New("red risk sessions cannot be approved")
	ErrReportNotReady  = errors.New("report is only available once a decision is recorded")

	ErrOTPNotSent  = errors.New("no verification code has been sent")
	ErrOTPExpired  = errors.New("verification code expired")
	ErrOTPLocked   = errors.New("too many incorrect codes")
	ErrOTPMismatch = errors.New("verification code is incorrect")
)

// ValidationError reports every rejected input field with a short reason.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

// persistError is returned from a mutation when the session changes must be
// saved even though the operation reports a failure, e.g. a failed liveness
// gate or a wrong OTP code.
type persistError struct {
	err error
}

func (e *persistError) Error() string { return e.err.Error() }
func (e *persistError) Unwrap() error { return e.err }

func saveAnd(err error) error { return &persistError{err: err} }
