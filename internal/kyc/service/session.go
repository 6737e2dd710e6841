package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/aussiebroadwan/verity/internal/kyc/audit"
	"github.com/aussiebroadwan/verity/internal/kyc/domain"
	"github.com/aussiebroadwan/verity/internal/kyc/flow"
	"github.com/aussiebroadwan/verity/internal/kyc/lock"
	"github.com/aussiebroadwan/verity/internal/kyc/metrics"
	"github.com/aussiebroadwan/verity/internal/kyc/provider"
	"github.com/aussiebroadwan/verity/internal/kyc/store"
	"github.com/aussiebroadwan/verity/pkg/idx"
	"github.com/aussiebroadwan/verity/pkg/slogx"
)

// SessionService runs the KYC workflow. Every mutation loads the session,
// changes it and saves it while holding the session's lock, so only one
// step transition per session is in flight.
type SessionService struct {
	Store       store.Store
	Providers   provider.Set
	Invitations *InvitationService
	Locker      lock.Locker
	Policy      Policy
	Audit       audit.Publisher
	Metrics     *metrics.Metrics

	// AutoDecision records green/amber/red as approved/needs_review/rejected
	// as soon as risk is computed.
	AutoDecision bool

	// PhoneRegion is the default region for national-format phone numbers.
	PhoneRegion string

	Now func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC().Truncate(time.Millisecond)
	}
	return time.Now().UTC().Truncate(time.Millisecond)
}

// StartInternal creates an org-launched session that requires the full
// document catalog.
func (s *SessionService) StartInternal(ctx context.Context, orgID, createdBy string) (domain.Session, error) {
	log := slogx.FromContext(ctx)

	if orgID == "" {
		return domain.Session{}, invalid("organizationId", "is required")
	}

	sess := s.newSession(orgID, "", domain.DocumentCatalog())
	if err := s.Store.Sessions().CreateSession(ctx, sess); err != nil {
		log.Error("failed to create session", slog.Any("error", err))
		return domain.Session{}, err
	}

	log.Info("session started",
		slog.String("session_id", sess.ID),
		slog.String("org_id", orgID),
		slog.String("origin", "internal"),
	)
	s.Metrics.IncSessionStarted("internal")

	e := audit.NewEvent(audit.SessionStarted, orgID, sess.CreatedAt)
	e.SessionID = sess.ID
	e.Actor = createdBy
	s.publish(ctx, e)

	return sess, nil
}

// StartFromInvitation consumes one use of the invitation and creates the
// session in the same transaction.
func (s *SessionService) StartFromInvitation(ctx context.Context, code string) (domain.Session, error) {
	log := slogx.FromContext(ctx)

	var sess domain.Session
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. Consume; the conditional update is the only concurrency guard
		inv, err := s.Invitations.ConsumeForNewSession(ctx, tx, code)
		if err != nil {
			return err
		}

		// 2. Snapshot the document list so later invitation edits cannot
		// change an in-flight session
		sess = s.newSession(inv.OrganizationID, inv.ID, slices.Clone(inv.RequiredDocuments))
		return tx.Sessions().CreateSession(ctx, sess)
	})
	if err != nil {
		if !errors.Is(err, ErrInvitationInvalid) {
			log.Error("failed to start session from invitation", slog.Any("error", err))
		}
		return domain.Session{}, err
	}

	log.Info("session started",
		slog.String("session_id", sess.ID),
		slog.String("org_id", sess.OrganizationID),
		slog.String("invitation_id", sess.InvitationID),
		slog.String("origin", "invitation"),
	)
	s.Metrics.IncSessionStarted("invitation")

	consumed := audit.NewEvent(audit.InvitationConsumed, sess.OrganizationID, sess.CreatedAt)
	consumed.InvitationID = sess.InvitationID
	consumed.SessionID = sess.ID
	s.publish(ctx, consumed)

	started := audit.NewEvent(audit.SessionStarted, sess.OrganizationID, sess.CreatedAt)
	started.SessionID = sess.ID
	started.InvitationID = sess.InvitationID
	s.publish(ctx, started)

	return sess, nil
}

func (s *SessionService) newSession(orgID, invitationID string, docs []domain.DocumentType) domain.Session {
	now := s.now()
	return domain.Session{
		ID:                idx.NewWithPrefix(idx.PrefixSession).String(),
		OrganizationID:    orgID,
		InvitationID:      invitationID,
		CurrentStep:       domain.FirstStep,
		Status:            domain.StatusPending,
		RequiredDocuments: docs,
		CreatedAt:         now,
		UpdatedAt:         now,
		Version:           1,
	}
}

func (s *SessionService) Get(ctx context.Context, id string) (domain.Session, error) {
	sess, err := s.Store.Sessions().GetSession(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Session{}, ErrSessionNotFound
	}
	return sess, err
}

// GetForOrganization hides sessions of other organizations.
func (s *SessionService) GetForOrganization(ctx context.Context, orgID, id string) (domain.Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	if sess.OrganizationID != orgID {
		return domain.Session{}, ErrSessionNotFound
	}
	return sess, nil
}

// ListByOrganization returns a page of orgID's sessions, optionally only
// those with status, plus the total number matching.
func (s *SessionService) ListByOrganization(ctx context.Context, orgID string, status domain.SessionStatus, page store.Page) ([]domain.Session, int, error) {
	if status != "" && !status.Valid() {
		return nil, 0, invalid("status", "must be one of pending, approved, rejected, needs_review")
	}
	return s.Store.Sessions().ListSessionsByOrganization(ctx, orgID, store.SessionFilter{Status: status}, page)
}

// change collects what a mutation writes besides the session row.
type change struct {
	captures []domain.Capture
	events   []audit.Event
}

func (c *change) emit(e audit.Event) { c.events = append(c.events, e) }

// anyStep skips the current step check in mutate.
const anyStep domain.Step = -1

type mutation func(ctx context.Context, sess *domain.Session, c *change) error

// mutate is the only write path for sessions: lock, load, check the step,
// apply fn, then save the session and its captures in one transaction.
// Events are published only after the commit.
func (s *SessionService) mutate(ctx context.Context, id string, step domain.Step, fn mutation) (domain.Session, error) {
	release, err := s.Locker.Acquire(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	defer release()

	sess, err := s.Get(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	ctx = slogx.WithSession(ctx, sess.ID, sess.OrganizationID)

	if step != anyStep && sess.CurrentStep != step {
		if sess.Status.Terminal() {
			return domain.Session{}, ErrSessionClosed
		}
		return domain.Session{}, fmt.Errorf("%w: session is at %s", ErrStepOutOfOrder, sess.CurrentStep)
	}

	var c change
	fnErr := fn(ctx, &sess, &c)
	var keep *persistError
	if fnErr != nil && !errors.As(fnErr, &keep) {
		return domain.Session{}, fnErr
	}

	sess.UpdatedAt = s.now()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, capture := range c.captures {
			if err := tx.Captures().PutCapture(ctx, capture); err != nil {
				return fmt.Errorf("store capture: %w", err)
			}
		}
		return tx.Sessions().UpdateSession(ctx, sess)
	})
	if err != nil {
		slogx.FromContext(ctx).Error("failed to save session", slog.Any("error", err))
		return domain.Session{}, err
	}
	sess.Version++

	for _, e := range c.events {
		s.publish(ctx, e)
	}

	if keep != nil {
		return sess, keep.err
	}
	return sess, nil
}

// advance leaves step through the flow guard and records the transition.
func (s *SessionService) advance(sess *domain.Session, c *change) error {
	from := sess.CurrentStep
	if err := flow.Advance(sess, from); err != nil {
		var inc *flow.IncompleteError
		if errors.As(err, &inc) {
			return fmt.Errorf("%w: %v", ErrStepIncomplete, inc.Missing)
		}
		return err
	}

	s.Metrics.IncStep(from.String(), "advance")

	e := audit.NewEvent(audit.SessionStepCompleted, sess.OrganizationID, s.now())
	e.SessionID = sess.ID
	c.emit(e.With("step", from.String()))
	return nil
}

// Retake sends the session back to an earlier capture step and clears the
// data of that step and every step after it.
func (s *SessionService) Retake(ctx context.Context, id string, step domain.Step) (domain.Session, error) {
	return s.mutate(ctx, id, anyStep, func(ctx context.Context, sess *domain.Session, c *change) error {
		from := sess.CurrentStep

		err := flow.Retake(sess, step)
		switch {
		case errors.Is(err, flow.ErrTerminal):
			return ErrSessionClosed
		case errors.Is(err, flow.ErrNotRetakeable), errors.Is(err, flow.ErrRetakeNotBehind):
			return fmt.Errorf("%w: %v", ErrInvalidRetake, err)
		case err != nil:
			return err
		}

		slogx.FromContext(ctx).Info("session step retaken",
			slog.String("from", from.String()),
			slog.String("to", step.String()),
		)
		s.Metrics.IncStep(step.String(), "retake")

		e := audit.NewEvent(audit.SessionRetake, sess.OrganizationID, s.now())
		e.SessionID = sess.ID
		c.emit(e.With("from", from.String()).With("to", step.String()))
		return nil
	})
}

func (s *SessionService) publish(ctx context.Context, e audit.Event) {
	publish(ctx, s.Audit, e)
}
