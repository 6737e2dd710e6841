// Package flow holds the KYC step table: what each step must have written
// before the session may leave it, and what a retake throws away.
package flow

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/aussiebroadwan/verity/internal/kyc/domain"
)

var (
	ErrOutOfOrder      = errors.New("flow: step is not the session's current step")
	ErrFinalStep       = errors.New("flow: session is already at the final step")
	ErrTerminal        = errors.New("flow: session already decided")
	ErrNotRetakeable   = errors.New("flow: step cannot be retaken")
	ErrRetakeNotBehind = errors.New("flow: can only retake an earlier step")
)

// IncompleteError lists the data still missing for a step.
type IncompleteError struct {
	Step    domain.Step
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("flow: step %s incomplete: missing %s", e.Step, strings.Join(e.Missing, ", "))
}

type rule struct {
	// missing returns the names of required data not yet written.
	missing func(s *domain.Session) []string

	// clear drops the data this step owns.
	clear func(s *domain.Session)

	retakeable bool
}

var table = map[domain.Step]rule{
	domain.StepWelcome: {
		missing: func(s *domain.Session) []string {
			if s.Preferences == nil || s.Preferences.Language == "" {
				return []string{"preferences.language"}
			}
			return nil
		},
		clear: func(s *domain.Session) { s.Preferences = nil },
	},
	domain.StepUserInfo: {
		missing: func(s *domain.Session) []string {
			u := s.UserInfo
			if u == nil {
				return []string{"userInfo"}
			}
			var out []string
			for name, v := range map[string]string{
				"userInfo.fullName":    u.FullName,
				"userInfo.dateOfBirth": u.DateOfBirth,
				"userInfo.phone":       u.Phone,
				"userInfo.address":     u.Address,
			} {
				if strings.TrimSpace(v) == "" {
					out = append(out, name)
				}
			}
			slices.Sort(out)
			return out
		},
		clear:      func(s *domain.Session) { s.UserInfo = nil },
		retakeable: true,
	},
	domain.StepPhoneVerification: {
		missing: func(s *domain.Session) []string {
			if s.PhoneVerification == nil || !s.PhoneVerification.IsVerified {
				return []string{"phoneVerification.isVerified"}
			}
			return nil
		},
		clear:      func(s *domain.Session) { s.PhoneVerification = nil },
		retakeable: true,
	},
	domain.StepDocumentSelection: {
		missing: func(s *domain.Session) []string {
			if s.Document == nil || !s.Requires(s.Document.Type) {
				return []string{"document.type"}
			}
			return nil
		},
		clear:      func(s *domain.Session) { s.Document = nil },
		retakeable: true,
	},
	domain.StepDocumentCapture: {
		missing: func(s *domain.Session) []string {
			if s.Document == nil || s.Document.CapturedImage == "" {
				return []string{"document.capturedImage"}
			}
			return nil
		},
		clear: func(s *domain.Session) {
			if s.Document != nil {
				s.Document = &domain.Document{Type: s.Document.Type}
			}
		},
		retakeable: true,
	},
	domain.StepDocumentReview: {
		missing: func(s *domain.Session) []string {
			var out []string
			if s.Document == nil || s.Document.OCRExtraction == nil {
				out = append(out, "document.ocrExtraction")
			}
			if s.Document == nil || !s.Document.Confirmed {
				out = append(out, "document.confirmed")
			}
			return out
		},
		clear: func(s *domain.Session) {
			if s.Document != nil {
				s.Document.Confirmed = false
			}
		},
	},
	domain.StepSelfieCapture: {
		missing: func(s *domain.Session) []string {
			if s.Biometric == nil || s.Biometric.SelfieImage == "" {
				return []string{"biometric.selfieImage"}
			}
			return nil
		},
		clear:      func(s *domain.Session) { s.Biometric = nil },
		retakeable: true,
	},
	domain.StepLivenessCheck: {
		missing: func(s *domain.Session) []string {
			if !s.Biometric.LivenessPassed() {
				return []string{"biometric.liveness"}
			}
			return nil
		},
		clear: func(s *domain.Session) {
			if s.Biometric != nil {
				s.Biometric = &domain.Biometric{
					SelfieImage:    s.Biometric.SelfieImage,
					FaceMatchScore: s.Biometric.FaceMatchScore,
				}
			}
		},
	},
	domain.StepGPSCheck: {
		missing: func(s *domain.Session) []string {
			if s.GPS == nil {
				return []string{"gps"}
			}
			return nil
		},
		clear:      func(s *domain.Session) { s.GPS = nil },
		retakeable: true,
	},
	domain.StepRiskSummary: {
		missing: func(s *domain.Session) []string {
			var out []string
			if s.RiskAssessment == nil {
				out = append(out, "riskAssessment")
			}
			if s.Decision == nil || !s.Status.Terminal() {
				out = append(out, "decision")
			}
			return out
		},
		clear: func(s *domain.Session) {
			s.RiskAssessment = nil
			s.Decision = nil
			s.Status = domain.StatusPending
		},
	},
	domain.StepResult: {
		missing: func(*domain.Session) []string { return nil },
		clear:   func(*domain.Session) {},
	},
}

// Missing reports the data still required before leaving step.
func Missing(s *domain.Session, step domain.Step) []string {
	r, ok := table[step]
	if !ok {
		return nil
	}
	return r.missing(s)
}

// CanAdvance is the single guard for forward moves. from must be the
// session's current step and all of its data must be present.
func CanAdvance(s *domain.Session, from domain.Step) error {
	if from != s.CurrentStep {
		return fmt.Errorf("%w: at %s, asked to leave %s", ErrOutOfOrder, s.CurrentStep, from)
	}
	if from >= domain.LastStep {
		return ErrFinalStep
	}
	if missing := Missing(s, from); len(missing) > 0 {
		return &IncompleteError{Step: from, Missing: missing}
	}
	return nil
}

// Advance moves s from "from" to the next step after CanAdvance succeeds.
func Advance(s *domain.Session, from domain.Step) error {
	if err := CanAdvance(s, from); err != nil {
		return err
	}
	s.CurrentStep = from + 1
	return nil
}

// Retakeable reports whether step may be the target of a retake. Steps
// outside this set are redone through their predecessor.
func Retakeable(step domain.Step) bool {
	return table[step].retakeable
}

// Retake sends s back to step, dropping the data of step and everything
// after it. It is the only backward move.
func Retake(s *domain.Session, step domain.Step) error {
	if s.Status.Terminal() {
		return ErrTerminal
	}
	if !Retakeable(step) {
		return fmt.Errorf("%w: %s", ErrNotRetakeable, step)
	}
	if step >= s.CurrentStep {
		return fmt.Errorf("%w: at %s, asked for %s", ErrRetakeNotBehind, s.CurrentStep, step)
	}

	for st := domain.LastStep; st >= step; st-- {
		table[st].clear(s)
	}
	s.CurrentStep = step
	return nil
}
