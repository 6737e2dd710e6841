package http

import (
	"net/http"

	"github.com/aussiebroadwan/verity/internal/kyc/domain"
	"github.com/aussiebroadwan/verity/internal/kyc/service"
	"github.com/aussiebroadwan/verity/pkg/httpx"
	"github.com/aussiebroadwan/verity/pkg/kycsdk"
)

// ReviewHandler serves the organization's reviewer endpoints.
type ReviewHandler struct {
	SessionService *service.SessionService
}

// HandleDecision godoc
//
//	@Summary		Record Decision
//	@Description	Record approved, rejected or needs_review for a session at the risk summary step. Red risk sessions cannot be approved. The reviewer is taken from the bearer token.
//	@Tags			Review
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Session ID"
//	@Param			request	body		kycsdk.DecisionRequest	true	"Decision"
//	@Success		200		{object}	kycsdk.Session
//	@Failure		400		{object}	kycsdk.ValidationErrorResponse
//	@Failure		404		{object}	kycsdk.ErrorResponse
//	@Failure		409		{object}	kycsdk.ErrorResponse	"approve_blocked, risk_not_computed, session_closed"
//	@Security		BearerAuth
//	@Router			/v1/sessions/{id}/decision [post].
func (h *ReviewHandler) HandleDecision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req kycsdk.DecisionRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	orgID, _ := httpx.OrgIDFromContext(ctx)
	sess, err := h.SessionService.Decide(ctx, orgID, r.PathValue("id"), service.DecisionInput{
		Status:    domain.SessionStatus(req.Status),
		DecidedBy: actorFromContext(r),
		Notes:     req.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sess)
}

// HandleReport godoc
//
//	@Summary		Export Report
//	@Description	Verification report of a decided session. Plain text by default; format=json returns the structured report.
//	@Tags			Review
//	@Produce		plain
//	@Produce		json
//	@Param			id		path		string	true	"Session ID"
//	@Param			format	query		string	false	"text (default) or json"
//	@Success		200		{object}	kycsdk.Report
//	@Failure		404		{object}	kycsdk.ErrorResponse
//	@Failure		409		{object}	kycsdk.ErrorResponse	"report_not_ready"
//	@Security		BearerAuth
//	@Router			/v1/sessions/{id}/report [get].
func (h *ReviewHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, _ := httpx.OrgIDFromContext(ctx)
	id := r.PathValue("id")

	switch r.URL.Query().Get("format") {
	case "json":
		report, err := h.SessionService.BuildReport(ctx, orgID, id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, report)

	case "", "text":
		body, err := h.SessionService.ExportReport(ctx, orgID, id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		httpx.WriteText(w, http.StatusOK, "kyc-report-"+id+".txt", body)

	default:
		writeError(w, http.StatusBadRequest, kycsdk.ErrorCodeInvalidRequest, "format must be text or json")
	}
}
