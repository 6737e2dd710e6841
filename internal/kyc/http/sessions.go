package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/aussiebroadwan/verity/internal/kyc/domain"
	"github.com/aussiebroadwan/verity/internal/kyc/service"
	"github.com/aussiebroadwan/verity/pkg/httpx"
	"github.com/aussiebroadwan/verity/pkg/kycsdk"
)

type SessionsHandler struct {
	SessionService *service.SessionService
}

// HandleStart godoc
//
//	@Summary		Start Internal Session
//	@Description	Start a session on behalf of the caller's organization without an invitation. The session accepts every supported document.
//	@Tags			Sessions
//	@Produce		json
//	@Success		201	{object}	kycsdk.Session
//	@Failure		401	{object}	kycsdk.ErrorResponse
//	@Failure		403	{object}	kycsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/sessions [post].
func (h *SessionsHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, _ := httpx.OrgIDFromContext(ctx)

	sess, err := h.SessionService.StartInternal(ctx, orgID, actorFromContext(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, sess)
}

// HandleList godoc
//
//	@Summary		List Organization Sessions
//	@Description	List the organization's sessions, newest first. Filter by status to pull the review queue.
//	@Tags			Sessions
//	@Produce		json
//	@Param			status	query		string	false	"pending, approved, rejected or needs_review"
//	@Param			limit	query		int		false	"Page size (default 50, max 200)"
//	@Param			offset	query		int		false	"Page offset"
//	@Success		200		{object}	kycsdk.SessionList
//	@Failure		400		{object}	kycsdk.ValidationErrorResponse
//	@Failure		401		{object}	kycsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/organizations/sessions [get].
func (h *SessionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, ok := pageFromQuery(w, r)
	if !ok {
		return
	}

	orgID, _ := httpx.OrgIDFromContext(ctx)
	status := domain.SessionStatus(r.URL.Query().Get("status"))
	list, total, err := h.SessionService.ListByOrganization(ctx, orgID, status, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.Session{}
	}

	httpx.WriteJSON(w, http.StatusOK, struct {
		Sessions []domain.Session `json:"sessions"`
		Total    int              `json:"total"`
	}{list, total})
}

// HandleGet godoc
//
//	@Summary		Get Session
//	@Description	Current state of a session, addressed by its id.
//	@Tags			Sessions
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	kycsdk.Session
//	@Failure		404	{object}	kycsdk.ErrorResponse
//	@Router			/v1/sessions/{id} [get].
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := h.SessionService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sess)
}

// HandleRetake godoc
//
//	@Summary		Retake Step
//	@Description	Move the session back to a capture step (document capture, selfie capture or liveness). That step's data and everything after it is cleared.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Session ID"
//	@Param			request	body		kycsdk.RetakeRequest	true	"Step name or index"
//	@Success		200		{object}	kycsdk.Session
//	@Failure		400		{object}	kycsdk.ValidationErrorResponse
//	@Failure		409		{object}	kycsdk.ErrorResponse	"invalid_retake, session_closed"
//	@Router			/v1/sessions/{id}/retake [post].
func (h *SessionsHandler) HandleRetake(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req kycsdk.RetakeRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	step, ok := domain.ParseStep(req.Step)
	if !ok {
		writeServiceError(w, r, &service.ValidationError{Fields: map[string]string{"step": "is not a known step"}})
		return
	}

	sess, err := h.SessionService.Retake(ctx, r.PathValue("id"), step)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sess)
}

// HandleRisk godoc
//
//	@Summary		Compute Risk
//	@Description	Aggregate the collected verification signals into a risk score and level. Scores are computed server side from stored data; clients never submit them. May be repeated until a decision is recorded.
//	@Tags			Sessions
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	kycsdk.Session
//	@Failure		409	{object}	kycsdk.ErrorResponse	"step_out_of_order, session_closed"
//	@Failure		503	{object}	kycsdk.ErrorResponse	"provider_unavailable"
//	@Router			/v1/sessions/{id}/risk [post].
func (h *SessionsHandler) HandleRisk(w http.ResponseWriter, r *http.Request) {
	sess, err := h.SessionService.ComputeRisk(r.Context(), r.PathValue("id"), deviceContext(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sess)
}

// decodeOptional decodes a JSON body that callers may leave out entirely.
func decodeOptional(w http.ResponseWriter, r *http.Request, dst any) error {
	err := httpx.DecodeJSON(w, r, dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
