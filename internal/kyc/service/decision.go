package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/verity/internal/kyc/audit"
	"github.com/aussiebroadwan/verity/internal/kyc/domain"
	"github.com/aussiebroadwan/verity/internal/kyc/provider"
	"github.com/aussiebroadwan/verity/internal/kyc/risk"
	"github.com/aussiebroadwan/verity/pkg/slogx"
)

// ComputeRisk aggregates the collected signals into a fresh assessment. It
// may run again until a decision is recorded; each run replaces the
// previous assessment. With AutoDecision set the decision follows at once.
func (s *SessionService) ComputeRisk(ctx context.Context, id string, dev provider.DeviceContext) (domain.Session, error) {
	return s.mutate(ctx, id, domain.StepRiskSummary, func(ctx context.Context, sess *domain.Session, c *change) error {
		log := slogx.FromContext(ctx)

		// 1. Device signal; no opinion means the baseline applies
		var device *float64
		if s.Providers.Fraud != nil {
			score, ok, err := s.Providers.Fraud.DeviceScore(ctx, dev)
			if err != nil {
				return provider.Wrap("fraud", err)
			}
			if ok {
				v := percent(score)
				device = &v
			}
		}

		// 2. Aggregate from stored data only
		in := riskInputs(sess)
		in.DeviceScore = device
		assessment := risk.Aggregate(in, s.now())
		sess.RiskAssessment = &assessment

		log.Info("risk computed",
			slog.Float64("score", assessment.SystemRiskScore),
			slog.String("level", string(assessment.RiskLevel)),
		)
		s.Metrics.ObserveRiskScore(assessment.SystemRiskScore)

		// 3. Optional straight-through decision
		if s.AutoDecision {
			return s.decide(sess, autoStatus(assessment.RiskLevel), domain.DecidedByAuto, "", c)
		}
		return nil
	})
}

func riskInputs(sess *domain.Session) risk.Inputs {
	var in risk.Inputs
	if d := sess.Document; d != nil {
		in.DocumentAuthenticity = d.AuthenticityScore
	}
	if b := sess.Biometric; b != nil {
		in.FaceMatch = b.FaceMatchScore
	}
	if g := sess.GPS; g != nil {
		in.GPSConfidence = g.MatchConfidence
		in.GPSSkipped = g.Skipped
	}
	if pv := sess.PhoneVerification; pv != nil {
		in.PhoneVerified = pv.IsVerified
	}
	return in
}

func autoStatus(level domain.RiskLevel) domain.SessionStatus {
	switch level {
	case domain.RiskGreen:
		return domain.StatusApproved
	case domain.RiskAmber:
		return domain.StatusNeedsReview
	default:
		return domain.StatusRejected
	}
}

type DecisionInput struct {
	Status    domain.SessionStatus `json:"status" validate:"required,oneof=approved rejected needs_review"`
	DecidedBy string               `json:"decidedBy" validate:"required,max=200"`
	Notes     string               `json:"notes" validate:"max=2000"`
}

// Decide records a reviewer's decision for a session of orgID and moves it to
// the result step.
func (s *SessionService) Decide(ctx context.Context, orgID, id string, in DecisionInput) (domain.Session, error) {
	if err := check(in); err != nil {
		return domain.Session{}, err
	}

	return s.mutate(ctx, id, anyStep, func(ctx context.Context, sess *domain.Session, c *change) error {
		if sess.OrganizationID != orgID {
			return ErrSessionNotFound
		}
		if sess.Status.Terminal() {
			return ErrSessionClosed
		}
		if sess.CurrentStep != domain.StepRiskSummary {
			return fmt.Errorf("%w: session is at %s", ErrStepOutOfOrder, sess.CurrentStep)
		}
		return s.decide(sess, in.Status, in.DecidedBy, in.Notes, c)
	})
}

func (s *SessionService) decide(sess *domain.Session, status domain.SessionStatus, by, notes string, c *change) error {
	a := sess.RiskAssessment
	if a == nil {
		return ErrRiskNotComputed
	}
	if status == domain.StatusApproved && a.RiskLevel == domain.RiskRed {
		return ErrApproveBlocked
	}

	gpsSkipped := sess.GPS != nil && sess.GPS.Skipped
	sess.Status = status
	sess.Decision = &domain.Decision{
		Status:    status,
		DecidedBy: by,
		Notes:     notes,
		Reasons:   risk.Reasons(a, status, gpsSkipped),
		DecidedAt: s.now(),
	}
	if err := s.advance(sess, c); err != nil {
		return err
	}

	s.Metrics.IncDecision(string(status), decider(by))

	e := audit.NewEvent(audit.SessionDecided, sess.OrganizationID, sess.Decision.DecidedAt)
	e.SessionID = sess.ID
	e.Actor = by
	c.emit(e.With("status", string(status)).
		With("risk_level", string(a.RiskLevel)).
		With("score", a.SystemRiskScore))
	return nil
}

// decider keeps the metric label set small.
func decider(by string) string {
	if by == domain.DecidedByAuto {
		return "auto"
	}
	return "reviewer"
}
