package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/aussiebroadwan/verity/internal/kyc/audit"
	"github.com/aussiebroadwan/verity/internal/kyc/domain"
	"github.com/aussiebroadwan/verity/internal/kyc/metrics"
	"github.com/aussiebroadwan/verity/internal/kyc/store"
	"github.com/aussiebroadwan/verity/pkg/cryptox"
	"github.com/aussiebroadwan/verity/pkg/idx"
	"github.com/aussiebroadwan/verity/pkg/slogx"
)

// DefaultInvitationTTL is the fixed validity window of a new invitation.
const DefaultInvitationTTL = 30 * 24 * time.Hour

type InvitationService struct {
	Store   store.Store
	Audit   audit.Publisher
	Metrics *metrics.Metrics

	TTL time.Duration
	Now func() time.Time
}

func (s *InvitationService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC().Truncate(time.Millisecond)
	}
	return time.Now().UTC().Truncate(time.Millisecond)
}

type BrandingInput struct {
	CompanyName  string `json:"companyName" validate:"max=200"`
	LogoURL      string `json:"logoUrl" validate:"omitempty,url,max=2048"`
	PrimaryColor string `json:"primaryColor" validate:"omitempty,hexcolor6"`
}

type CreateInvitationInput struct {
	OrganizationID    string                `json:"-" validate:"required"`
	CreatedBy         string                `json:"-" validate:"required"`
	Name              string                `json:"name" validate:"required,max=200"`
	UsageLimit        *int                  `json:"usageLimit" validate:"omitempty,gt=0"`
	Branding          *BrandingInput        `json:"customBranding" validate:"omitempty"`
	RequiredDocuments []domain.DocumentType `json:"requiredDocuments"`
}

// Create issues a new invitation with an unguessable code.
func (s *InvitationService) Create(ctx context.Context, in CreateInvitationInput) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input
	in.Name = strings.TrimSpace(in.Name)
	if err := check(in); err != nil {
		return domain.Invitation{}, err
	}

	docs := in.RequiredDocuments
	if len(docs) == 0 {
		docs = domain.DocumentCatalog()
	}
	seen := make(map[domain.DocumentType]bool, len(docs))
	ordered := make([]domain.DocumentType, 0, len(docs))
	for _, d := range docs {
		if !d.Valid() {
			return domain.Invitation{}, invalid("requiredDocuments", "contains an unsupported document: "+string(d))
		}
		if !seen[d] {
			seen[d] = true
			ordered = append(ordered, d)
		}
	}

	// 2. Generate the share code
	code, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invitation code", slog.Any("error", err))
		return domain.Invitation{}, err
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultInvitationTTL
	}
	now := s.now()

	inv := domain.Invitation{
		ID:                idx.NewWithPrefix(idx.PrefixInvitation).String(),
		OrganizationID:    in.OrganizationID,
		Code:              code,
		Name:              in.Name,
		UsageLimit:        in.UsageLimit,
		IsActive:          true,
		ExpiresAt:         now.Add(ttl),
		RequiredDocuments: ordered,
		CreatedBy:         in.CreatedBy,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if b := in.Branding; b != nil {
		inv.Branding = &domain.Branding{
			CompanyName:  strings.TrimSpace(b.CompanyName),
			LogoURL:      b.LogoURL,
			PrimaryColor: b.PrimaryColor,
		}
	}

	// 3. Persist
	if err := s.Store.Invitations().CreateInvitation(ctx, inv); err != nil {
		log.Error("failed to create invitation", slog.Any("error", err))
		return domain.Invitation{}, err
	}

	log.Info("invitation created",
		slog.String("invitation_id", inv.ID),
		slog.String("org_id", inv.OrganizationID),
		slog.Time("expires_at", inv.ExpiresAt),
	)

	e := audit.NewEvent(audit.InvitationCreated, inv.OrganizationID, now)
	e.InvitationID = inv.ID
	e.Actor = in.CreatedBy
	publish(ctx, s.Audit, e)

	return inv, nil
}

// InvitationView is what a customer sees before starting a session.
type InvitationView struct {
	Name              string
	Branding          *domain.Branding
	RequiredDocuments []domain.DocumentType
	ExpiresAt         time.Time
}

// ResolveByCode returns the public view of a consumable invitation. Every
// other case is ErrInvitationInvalid.
func (s *InvitationService) ResolveByCode(ctx context.Context, code string) (InvitationView, error) {
	inv, err := s.Store.Invitations().GetInvitationByCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return InvitationView{}, ErrInvitationInvalid
	}
	if err != nil {
		return InvitationView{}, err
	}
	if !inv.Consumable(s.now()) {
		slogx.FromContext(ctx).Debug("invitation not consumable",
			slog.String("invitation_id", inv.ID),
			slog.Bool("active", inv.IsActive),
		)
		return InvitationView{}, ErrInvitationInvalid
	}

	return InvitationView{
		Name:              inv.Name,
		Branding:          inv.Branding,
		RequiredDocuments: slices.Clone(inv.RequiredDocuments),
		ExpiresAt:         inv.ExpiresAt,
	}, nil
}

// GetForOrganization returns the full invitation state. Invitations of other
// organizations are not found.
func (s *InvitationService) GetForOrganization(ctx context.Context, orgID, id string) (domain.Invitation, error) {
	inv, err := s.Store.Invitations().GetInvitation(ctx, id)
	if errors.Is(err, store.ErrNotFound) || (err == nil && inv.OrganizationID != orgID) {
		return domain.Invitation{}, ErrInvitationNotFound
	}
	return inv, err
}

func (s *InvitationService) ListByOrganization(ctx context.Context, orgID string, page store.Page) ([]domain.Invitation, int, error) {
	return s.Store.Invitations().ListInvitationsByOrganization(ctx, orgID, page)
}

// ConsumeForNewSession takes one use of the invitation through repos, which
// is normally the transaction that also creates the session.
func (s *InvitationService) ConsumeForNewSession(ctx context.Context, repos store.Store, code string) (domain.Invitation, error) {
	inv, err := repos.Invitations().ConsumeInvitationByCode(ctx, code, s.now())
	if errors.Is(err, store.ErrNotConsumable) {
		s.Metrics.IncInvitationConsume("rejected")
		return domain.Invitation{}, ErrInvitationInvalid
	}
	if err != nil {
		return domain.Invitation{}, err
	}
	s.Metrics.IncInvitationConsume("ok")
	return inv, nil
}

// Revoke deactivates an invitation. Revoking twice keeps the first time.
func (s *InvitationService) Revoke(ctx context.Context, orgID, id, actor string) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	if _, err := s.GetForOrganization(ctx, orgID, id); err != nil {
		return domain.Invitation{}, err
	}

	now := s.now()
	if err := s.Store.Invitations().RevokeInvitation(ctx, id, now); err != nil {
		log.Error("failed to revoke invitation", slog.Any("error", err))
		return domain.Invitation{}, err
	}

	inv, err := s.Store.Invitations().GetInvitation(ctx, id)
	if err != nil {
		return domain.Invitation{}, err
	}

	log.Info("invitation revoked", slog.String("invitation_id", id))

	e := audit.NewEvent(audit.InvitationRevoked, orgID, now)
	e.InvitationID = id
	e.Actor = actor
	publish(ctx, s.Audit, e)

	return inv, nil
}

// publish is best effort; the audit trail never blocks the caller.
func publish(ctx context.Context, p audit.Publisher, e audit.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		slogx.FromContext(ctx).Warn("failed to publish audit event",
			slog.String("event_type", string(e.Type)),
			slog.Any("error", err),
		)
	}
}
