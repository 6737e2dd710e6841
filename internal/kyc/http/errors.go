package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/verity/internal/kyc/lock"
	"github.com/aussiebroadwan/verity/internal/kyc/provider"
	"github.com/aussiebroadwan/verity/internal/kyc/service"
	"github.com/aussiebroadwan/verity/pkg/httpx"
	"github.com/aussiebroadwan/verity/pkg/kycsdk"
	"github.com/aussiebroadwan/verity/pkg/slogx"
)

// writeServiceError maps service and provider errors onto the API error
// shape. Anything unrecognised is logged and reported as a server error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		httpx.WriteJSON(w, http.StatusBadRequest, kycsdk.ValidationErrorResponse{
			Code:    kycsdk.ErrorCodeValidation,
			Message: "request validation failed",
			Details: verr.Fields,
		})
		return
	}

	var perr *provider.Error
	if errors.As(err, &perr) {
		slogx.FromContext(r.Context()).Warn("provider call failed",
			"provider", perr.Provider,
			"kind", string(perr.Kind),
			"retryable", perr.Retryable,
			"err", err,
		)
		if perr.Retryable {
			w.Header().Set("Retry-After", "5")
			writeError(w, http.StatusServiceUnavailable, kycsdk.ErrorCodeProviderUnavailable,
				"verification provider is unavailable, please try again")
			return
		}
		writeError(w, http.StatusBadGateway, kycsdk.ErrorCodeProviderError,
			"verification provider rejected the request")
		return
	}

	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrInvitationNotFound):
		writeError(w, http.StatusNotFound, kycsdk.ErrorCodeNotFound, err.Error())
	case errors.Is(err, service.ErrInvitationInvalid):
		writeError(w, http.StatusNotFound, kycsdk.ErrorCodeInvitationInvalid, err.Error())
	case errors.Is(err, lock.ErrBusy):
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusConflict, kycsdk.ErrorCodeSessionBusy, "session is being updated, please retry")
	case errors.Is(err, service.ErrStepOutOfOrder):
		writeError(w, http.StatusConflict, kycsdk.ErrorCodeStepOutOfOrder, err.Error())
	case errors.Is(err, service.ErrSessionClosed):
		writeError(w, http.StatusConflict, kycsdk.ErrorCodeSessionClosed, err.Error())
	case errors.Is(err, service.ErrInvalidRetake):
		writeError(w, http.StatusConflict, kycsdk.ErrorCodeInvalidRetake, err.Error())
	case errors.Is(err, service.ErrApproveBlocked):
		writeError(w, http.StatusConflict, kycsdk.ErrorCodeApproveBlocked, err.Error())
	case errors.Is(err, service.ErrRiskNotComputed):
		writeError(w, http.StatusConflict, kycsdk.ErrorCodeRiskNotComputed, err.Error())
	case errors.Is(err, service.ErrReportNotReady):
		writeError(w, http.StatusConflict, kycsdk.ErrorCodeReportNotReady, err.Error())
	case errors.Is(err, service.ErrOTPNotSent):
		writeError(w, http.StatusConflict, kycsdk.ErrorCodeOTPNotSent, err.Error())
	case errors.Is(err, service.ErrStepIncomplete):
		writeError(w, http.StatusUnprocessableEntity, kycsdk.ErrorCodeStepIncomplete, err.Error())
	case errors.Is(err, service.ErrLivenessFailed):
		writeError(w, http.StatusUnprocessableEntity, kycsdk.ErrorCodeLivenessFailed, err.Error())
	case errors.Is(err, service.ErrGPSRequired):
		writeError(w, http.StatusUnprocessableEntity, kycsdk.ErrorCodeGPSRequired, err.Error())
	case errors.Is(err, service.ErrOTPMismatch):
		writeError(w, http.StatusUnprocessableEntity, kycsdk.ErrorCodeOTPMismatch, err.Error())
	case errors.Is(err, service.ErrOTPExpired):
		writeError(w, http.StatusGone, kycsdk.ErrorCodeOTPExpired, err.Error())
	case errors.Is(err, service.ErrOTPLocked):
		writeError(w, http.StatusTooManyRequests, kycsdk.ErrorCodeOTPLocked, err.Error())
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, kycsdk.ErrorCodeServerError, "internal server error")
	}
}

func writeError(w http.ResponseWriter, code int, errCode, desc string) {
	httpx.WriteJSON(w, code, kycsdk.ErrorResponse{
		Error:            errCode,
		ErrorDescription: desc,
	})
}

// writeDecodeError reports a body that could not be parsed.
func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, httpx.ErrBodyTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, kycsdk.ErrorCodeInvalidRequest, "request body too large")
		return
	}
	writeError(w, http.StatusBadRequest, kycsdk.ErrorCodeInvalidRequest, "invalid JSON body")
}
