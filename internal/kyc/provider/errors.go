package provider

import (
	"context"
	"errors"
	"fmt"
)

// Kind is the normalized failure taxonomy for provider calls.
type Kind string

const (
	KindTimeout     Kind = "timeout"
	KindBadData     Kind = "bad_data"
	KindAuth        Kind = "authentication"
	KindOutage      Kind = "provider_outage"
	KindRateLimited Kind = "rate_limited"
	KindRejected    Kind = "rejected"
	KindInternal    Kind = "internal"
)

// Error wraps a provider failure. Retryable failures leave the session where
// it was so the customer can try the step again.
type Error struct {
	Kind       Kind
	Provider   string
	Message    string
	Underlying error
	Retryable  bool
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("provider %s [%s]: %s: %v", e.Provider, e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("provider %s [%s]: %s", e.Provider, e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Underlying }

// NewError builds an Error and derives Retryable from kind.
func NewError(kind Kind, provider, message string, underlying error) *Error {
	return &Error{
		Kind:       kind,
		Provider:   provider,
		Message:    message,
		Underlying: underlying,
		Retryable:  kind == KindTimeout || kind == KindOutage || kind == KindRateLimited,
	}
}

// Wrap normalizes any error from a provider call. Context errors become
// timeouts; errors that already are *Error pass through.
func Wrap(provider string, err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewError(KindTimeout, provider, "call did not complete", err)
	}
	return NewError(KindInternal, provider, "call failed", err)
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}

// OTP outcomes that are the customer's doing rather than a provider fault.
var (
	ErrNoChallenge       = errors.New("provider: no outstanding code for this phone")
	ErrChallengeExpired  = errors.New("provider: code expired")
	ErrTooManyAttempts   = errors.New("provider: too many attempts")
	ErrUnsupportedFormat = errors.New("provider: unsupported image format")
	ErrImageTooLarge     = errors.New("provider: image dimensions too large")
)
