package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/verity/internal/kyc/domain"
	"github.com/aussiebroadwan/verity/internal/kyc/service"
	"github.com/aussiebroadwan/verity/internal/kyc/store"
	"github.com/aussiebroadwan/verity/pkg/httpx"
	"github.com/aussiebroadwan/verity/pkg/kycsdk"
)

type InvitationsHandler struct {
	InvitationService *service.InvitationService
	PublicBaseURL     string
}

// HandleCreate godoc
//
//	@Summary		Create Invitation
//	@Description	Mint a shareable invitation link for the caller's organization. Omitted usage limit means unlimited; omitted documents means the full catalog.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		kycsdk.CreateInvitationRequest	true	"Invitation"
//	@Success		201		{object}	kycsdk.Invitation
//	@Failure		400		{object}	kycsdk.ValidationErrorResponse	"code, message, details"
//	@Failure		401		{object}	kycsdk.ErrorResponse
//	@Failure		403		{object}	kycsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/invitations [post].
func (h *InvitationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req kycsdk.CreateInvitationRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	orgID, _ := httpx.OrgIDFromContext(ctx)
	in := service.CreateInvitationInput{
		OrganizationID: orgID,
		CreatedBy:      actorFromContext(r),
		Name:           req.Name,
		UsageLimit:     req.UsageLimit,
	}
	if b := req.CustomBranding; b != nil {
		in.Branding = &service.BrandingInput{
			CompanyName:  b.CompanyName,
			LogoURL:      b.LogoURL,
			PrimaryColor: b.PrimaryColor,
		}
	}
	for _, d := range req.RequiredDocuments {
		in.RequiredDocuments = append(in.RequiredDocuments, domain.DocumentType(d))
	}

	inv, err := h.InvitationService.Create(ctx, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toInvitation(&inv, h.PublicBaseURL))
}

// HandleList godoc
//
//	@Summary		List Invitations
//	@Description	List the organization's invitations, newest first.
//	@Tags			Invitations
//	@Produce		json
//	@Param			limit	query		int	false	"Page size (default 50, max 200)"
//	@Param			offset	query		int	false	"Page offset"
//	@Success		200		{object}	kycsdk.InvitationList
//	@Failure		400		{object}	kycsdk.ErrorResponse
//	@Failure		401		{object}	kycsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/invitations [get].
func (h *InvitationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, ok := pageFromQuery(w, r)
	if !ok {
		return
	}

	orgID, _ := httpx.OrgIDFromContext(ctx)
	invs, total, err := h.InvitationService.ListByOrganization(ctx, orgID, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := kycsdk.InvitationList{Invitations: make([]kycsdk.Invitation, 0, len(invs)), Total: total}
	for i := range invs {
		out.Invitations = append(out.Invitations, toInvitation(&invs[i], h.PublicBaseURL))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet godoc
//
//	@Summary		Get Invitation
//	@Description	Full state of one invitation, including its usage count.
//	@Tags			Invitations
//	@Produce		json
//	@Param			id	path		string	true	"Invitation ID"
//	@Success		200	{object}	kycsdk.Invitation
//	@Failure		404	{object}	kycsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/invitations/{id} [get].
func (h *InvitationsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, _ := httpx.OrgIDFromContext(ctx)

	inv, err := h.InvitationService.GetForOrganization(ctx, orgID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInvitation(&inv, h.PublicBaseURL))
}

// HandleRevoke godoc
//
//	@Summary		Revoke Invitation
//	@Description	Deactivate an invitation. Sessions already started from it are unaffected. Revoking twice is not an error.
//	@Tags			Invitations
//	@Produce		json
//	@Param			id	path		string	true	"Invitation ID"
//	@Success		200	{object}	kycsdk.Invitation
//	@Failure		404	{object}	kycsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/invitations/{id}/revoke [post].
func (h *InvitationsHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, _ := httpx.OrgIDFromContext(ctx)

	inv, err := h.InvitationService.Revoke(ctx, orgID, r.PathValue("id"), actorFromContext(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInvitation(&inv, h.PublicBaseURL))
}

func toInvitation(inv *domain.Invitation, baseURL string) kycsdk.Invitation {
	return kycsdk.Invitation{
		ID:                inv.ID,
		OrganizationID:    inv.OrganizationID,
		Code:              inv.Code,
		URL:               inv.ShareURL(baseURL),
		Name:              inv.Name,
		UsageLimit:        inv.UsageLimit,
		UsageCount:        inv.UsageCount,
		IsActive:          inv.IsActive,
		ExpiresAt:         inv.ExpiresAt,
		CustomBranding:    toBranding(inv.Branding),
		RequiredDocuments: documentNames(inv.RequiredDocuments),
		CreatedBy:         inv.CreatedBy,
		CreatedAt:         inv.CreatedAt,
		UpdatedAt:         inv.UpdatedAt,
		RevokedAt:         inv.RevokedAt,
	}
}

func toBranding(b *domain.Branding) *kycsdk.Branding {
	if b == nil {
		return nil
	}
	return &kycsdk.Branding{
		CompanyName:  b.CompanyName,
		LogoURL:      b.LogoURL,
		PrimaryColor: b.PrimaryColor,
	}
}

func documentNames(docs []domain.DocumentType) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = string(d)
	}
	return out
}

// actorFromContext names the operator for audit and decisions: the display
// name when the token carries one, else the subject.
func actorFromContext(r *http.Request) string {
	if c, ok := httpx.ClaimsFromContext(r.Context()); ok && c.Name != "" {
		return c.Name
	}
	sub, _ := httpx.SubjectFromContext(r.Context())
	return sub
}

// pageFromQuery reads limit/offset. It writes the error response itself.
func pageFromQuery(w http.ResponseWriter, r *http.Request) (store.Page, bool) {
	var page store.Page
	q := r.URL.Query()

	for name, dst := range map[string]*int{"limit": &page.Limit, "offset": &page.Offset} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, kycsdk.ErrorCodeInvalidRequest, name+" must be a non-negative integer")
			return store.Page{}, false
		}
		*dst = n
	}
	return page.Normalize(), true
}
