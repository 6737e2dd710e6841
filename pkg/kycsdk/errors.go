package kycsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes returned in the "error" field of failed responses.
const (
	ErrorCodeInvalidRequest      = "invalid_request"
	ErrorCodeValidation          = "validation_error"
	ErrorCodeNotFound            = "not_found"
	ErrorCodeInvitationInvalid   = "invitation_invalid"
	ErrorCodeStepOutOfOrder      = "step_out_of_order"
	ErrorCodeStepIncomplete      = "step_incomplete"
	ErrorCodeSessionClosed       = "session_closed"
	ErrorCodeSessionBusy         = "session_busy"
	ErrorCodeInvalidRetake       = "invalid_retake"
	ErrorCodeLivenessFailed      = "liveness_failed"
	ErrorCodeGPSRequired         = "gps_required"
	ErrorCodeRiskNotComputed     = "risk_not_computed"
	ErrorCodeApproveBlocked      = "approve_blocked"
	ErrorCodeReportNotReady      = "report_not_ready"
	ErrorCodeOTPNotSent          = "otp_not_sent"
	ErrorCodeOTPExpired          = "otp_expired"
	ErrorCodeOTPLocked           = "otp_locked"
	ErrorCodeOTPMismatch         = "otp_mismatch"
	ErrorCodeProviderError       = "provider_error"
	ErrorCodeProviderUnavailable = "provider_unavailable"
	ErrorCodeInsufficientScope   = "insufficient_scope"
	ErrorCodeUnauthorized        = "invalid_token"
	ErrorCodeRateLimited         = "rate_limit_exceeded"
	ErrorCodeServerError         = "server_error"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode  int
	Code        string
	Description string

	// Details maps rejected request fields to a reason.
	Details map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Description)
}

// parseErrorResponse turns an error body into an *APIError. Returns nil for
// 2xx responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var valErr ValidationErrorResponse
	if err := json.Unmarshal(body, &valErr); err == nil && valErr.Code != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        valErr.Code,
			Description: valErr.Message,
			Details:     valErr.Details,
		}
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	// Bearer failures carry no body
	code := ErrorCodeServerError
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		code = ErrorCodeUnauthorized
	case http.StatusForbidden:
		code = ErrorCodeInsufficientScope
	}
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        code,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
