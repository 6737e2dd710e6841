package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/verity/internal/kyc/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict is returned when a row changed since it was loaded.
	ErrConflict = errors.New("store: version conflict")

	// ErrNotConsumable is returned when an invitation cannot take another use.
	ErrNotConsumable = errors.New("store: invitation not consumable")
)

// Store is the root data access interface. Concrete drivers implement it and
// expose sub-repositories so a transaction can hand out the same repos
// scoped to the tx.
type Store interface {
	Sessions() Sessions
	Invitations() Invitations
	OTPChallenges() OTPChallenges
	Captures() Captures

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Page is a limit/offset window. Zero Limit means the driver default.
type Page struct {
	Limit  int
	Offset int
}

// SessionFilter narrows a session listing. An empty Status matches all.
type SessionFilter struct {
	Status domain.SessionStatus
}

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// Normalize clamps the page to sane bounds.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error

	GetSession(ctx context.Context, id string) (domain.Session, error)

	// UpdateSession writes s if the stored version still equals s.Version and
	// stores version+1. ErrConflict otherwise.
	UpdateSession(ctx context.Context, s domain.Session) error

	// ListSessionsByOrganization returns one page newest first and the number
	// of sessions matching filter across all pages.
	ListSessionsByOrganization(ctx context.Context, orgID string, filter SessionFilter, page Page) ([]domain.Session, int, error)
}

type Invitations interface {
	CreateInvitation(ctx context.Context, inv domain.Invitation) error
	GetInvitation(ctx context.Context, id string) (domain.Invitation, error)
	GetInvitationByCode(ctx context.Context, code string) (domain.Invitation, error)

	// ListInvitationsByOrganization returns one page newest first and the
	// organization's invitation count.
	ListInvitationsByOrganization(ctx context.Context, orgID string, page Page) ([]domain.Invitation, int, error)

	// ConsumeInvitationByCode increments usage_count in one conditional
	// statement and returns the updated invitation. ErrNotConsumable when the
	// invitation is unknown, inactive, expired or exhausted.
	ConsumeInvitationByCode(ctx context.Context, code string, now time.Time) (domain.Invitation, error)

	// RevokeInvitation deactivates the invitation. revoked_at is only set the
	// first time.
	RevokeInvitation(ctx context.Context, id string, now time.Time) error
}

type OTPChallenges interface {
	// PutOTPChallenge replaces any outstanding challenge for the same phone.
	PutOTPChallenge(ctx context.Context, c domain.OTPChallenge) error
	GetOTPChallenge(ctx context.Context, phone string) (domain.OTPChallenge, error)

	// IncrementOTPAttempts records a failed attempt and returns the new count.
	IncrementOTPAttempts(ctx context.Context, phone string) (int, error)

	DeleteOTPChallenge(ctx context.Context, phone string) error

	// DeleteExpiredOTPChallenges is housekeeping.
	DeleteExpiredOTPChallenges(ctx context.Context, now time.Time) (int64, error)
}

type Captures interface {
	// PutCapture stores an image, replacing the previous capture of the same
	// kind for the session.
	PutCapture(ctx context.Context, c domain.Capture) error
	GetCapture(ctx context.Context, id string) (domain.Capture, error)
}
