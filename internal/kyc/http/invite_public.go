package http

import (
	"net/http"

	"github.com/aussiebroadwan/verity/internal/kyc/service"
	"github.com/aussiebroadwan/verity/pkg/httpx"
	"github.com/aussiebroadwan/verity/pkg/kycsdk"
)

// InviteHandler serves the customer side of an invitation link.
type InviteHandler struct {
	InvitationService *service.InvitationService
	SessionService    *service.SessionService
}

// HandleResolve godoc
//
//	@Summary		Resolve Invitation Link
//	@Description	Public view of an invitation: name, branding and accepted documents. Unknown, expired, revoked and exhausted links are indistinguishable.
//	@Tags			Invite
//	@Produce		json
//	@Param			code	path		string	true	"Invitation code"
//	@Success		200		{object}	kycsdk.InvitationPreview
//	@Failure		404		{object}	kycsdk.ErrorResponse	"invitation_invalid"
//	@Router			/v1/invite/{code} [get].
func (h *InviteHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := h.InvitationService.ResolveByCode(ctx, r.PathValue("code"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, kycsdk.InvitationPreview{
		Name:              view.Name,
		CustomBranding:    toBranding(view.Branding),
		RequiredDocuments: documentNames(view.RequiredDocuments),
		ExpiresAt:         view.ExpiresAt,
	})
}

// HandleStart godoc
//
//	@Summary		Start Session From Invitation
//	@Description	Consume one use of the invitation and start a session at the welcome step. The session id in the response is the customer's handle for every later call.
//	@Tags			Invite
//	@Produce		json
//	@Param			code	path		string	true	"Invitation code"
//	@Success		201		{object}	kycsdk.Session
//	@Failure		404		{object}	kycsdk.ErrorResponse	"invitation_invalid"
//	@Failure		429		{object}	kycsdk.ErrorResponse
//	@Router			/v1/invite/{code}/sessions [post].
func (h *InviteHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := h.SessionService.StartFromInvitation(ctx, r.PathValue("code"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, sess)
}
