package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/verity/internal/kyc/domain"
	"github.com/aussiebroadwan/verity/internal/kyc/service"
	"github.com/aussiebroadwan/verity/pkg/httpx"
	"github.com/aussiebroadwan/verity/pkg/kycsdk"
)

// StepsHandler accepts the customer's input for each step of the flow.
type StepsHandler struct {
	SessionService *service.SessionService
}

// stepFunc decodes the body for one step and runs it.
type stepFunc func(h *StepsHandler, w http.ResponseWriter, r *http.Request, id string) (domain.Session, error)

var stepHandlers = map[domain.Step]stepFunc{
	domain.StepWelcome:           (*StepsHandler).welcome,
	domain.StepUserInfo:          (*StepsHandler).userInfo,
	domain.StepPhoneVerification: (*StepsHandler).verifyPhone,
	domain.StepDocumentSelection: (*StepsHandler).selectDocument,
	domain.StepDocumentCapture:   (*StepsHandler).captureDocument,
	domain.StepDocumentReview:    (*StepsHandler).reviewDocument,
	domain.StepSelfieCapture:     (*StepsHandler).captureSelfie,
	domain.StepLivenessCheck:     (*StepsHandler).checkLiveness,
	domain.StepGPSCheck:          (*StepsHandler).checkLocation,
	domain.StepRiskSummary:       (*StepsHandler).riskSummary,
}

// errBodyWritten reports that a stepFunc already wrote the response.
type errBodyWritten struct{}

func (errBodyWritten) Error() string { return "response already written" }

// HandleStep godoc
//
//	@Summary		Submit Step
//	@Description	Submit the input for the session's current step, by step name or index. Bodies per step:
//	@Description	welcome: PreferencesRequest; user_info: UserInfoRequest; phone_verification: VerifyOTPRequest;
//	@Description	document_selection: DocumentSelectionRequest; document_capture, selfie_capture: CaptureRequest (base64 image); liveness_check: no body;
//	@Description	document_review: DocumentReviewRequest; gps_check: GPSRequest; risk_summary: no body.
//	@Description	A step may only be submitted while it is the current step. Provider failures leave the session where it was.
//	@Tags			Steps
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string	true	"Session ID"
//	@Param			step	path		string	true	"Step name or index"
//	@Success		200		{object}	kycsdk.Session
//	@Failure		400		{object}	kycsdk.ValidationErrorResponse	"validation_error"
//	@Failure		404		{object}	kycsdk.ErrorResponse			"not_found"
//	@Failure		409		{object}	kycsdk.ErrorResponse			"step_out_of_order, session_closed, session_busy"
//	@Failure		422		{object}	kycsdk.ErrorResponse			"liveness_failed, otp_mismatch, step_incomplete"
//	@Failure		502		{object}	kycsdk.ErrorResponse			"provider_error"
//	@Failure		503		{object}	kycsdk.ErrorResponse			"provider_unavailable"
//	@Router			/v1/sessions/{id}/steps/{step} [post].
func (h *StepsHandler) HandleStep(w http.ResponseWriter, r *http.Request) {
	step, ok := domain.ParseStep(r.PathValue("step"))
	if !ok {
		writeError(w, http.StatusNotFound, kycsdk.ErrorCodeNotFound, "unknown step")
		return
	}
	fn, ok := stepHandlers[step]
	if !ok {
		// The result step is reached through a decision, never submitted
		writeError(w, http.StatusMethodNotAllowed, kycsdk.ErrorCodeInvalidRequest, "step "+step.String()+" does not accept input")
		return
	}

	sess, err := fn(h, w, r, r.PathValue("id"))
	if err != nil {
		if errors.As(err, &errBodyWritten{}) {
			return
		}
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sess)
}

// decode reads a required JSON body, writing the error response on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		writeDecodeError(w, err)
		return errBodyWritten{}
	}
	return nil
}

func (h *StepsHandler) welcome(w http.ResponseWriter, r *http.Request, id string) (domain.Session, error) {
	var req kycsdk.PreferencesRequest
	if err := decode(w, r, &req); err != nil {
		return domain.Session{}, err
	}
	return h.SessionService.SetPreferences(r.Context(), id, service.PreferencesInput{
		Language:      req.Language,
		VoiceGuidance: req.VoiceGuidance,
	})
}

func (h *StepsHandler) userInfo(w http.ResponseWriter, r *http.Request, id string) (domain.Session, error) {
	var req kycsdk.UserInfoRequest
	if err := decode(w, r, &req); err != nil {
		return domain.Session{}, err
	}
	return h.SessionService.SubmitUserInfo(r.Context(), id, service.UserInfoInput{
		FullName:    req.FullName,
		DateOfBirth: req.DateOfBirth,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
	})
}

func (h *StepsHandler) verifyPhone(w http.ResponseWriter, r *http.Request, id string) (domain.Session, error) {
	var req kycsdk.VerifyOTPRequest
	if err := decode(w, r, &req); err != nil {
		return domain.Session{}, err
	}
	return h.SessionService.VerifyOTP(r.Context(), id, req.Code)
}

func (h *StepsHandler) selectDocument(w http.ResponseWriter, r *http.Request, id string) (domain.Session, error) {
	var req kycsdk.DocumentSelectionRequest
	if err := decode(w, r, &req); err != nil {
		return domain.Session{}, err
	}
	return h.SessionService.SelectDocument(r.Context(), id, domain.DocumentType(req.DocumentType))
}

func (h *StepsHandler) captureDocument(w http.ResponseWriter, r *http.Request, id string) (domain.Session, error) {
	img, err := decodeImage(w, r)
	if err != nil {
		return domain.Session{}, err
	}
	return h.SessionService.CaptureDocument(r.Context(), id, img)
}

func (h *StepsHandler) reviewDocument(w http.ResponseWriter, r *http.Request, id string) (domain.Session, error) {
	var req kycsdk.DocumentReviewRequest
	if err := decode(w, r, &req); err != nil {
		return domain.Session{}, err
	}
	return h.SessionService.ConfirmDocument(r.Context(), id, service.ReviewInput{
		Confirmed:      req.Confirmed,
		DocumentNumber: req.DocumentNumber,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		DateOfBirth:    req.DateOfBirth,
		ExpiryDate:     req.ExpiryDate,
	})
}

func (h *StepsHandler) captureSelfie(w http.ResponseWriter, r *http.Request, id string) (domain.Session, error) {
	img, err := decodeImage(w, r)
	if err != nil {
		return domain.Session{}, err
	}
	return h.SessionService.CaptureSelfie(r.Context(), id, img)
}

// checkLiveness takes no body. The check always runs on the stored selfie.
func (h *StepsHandler) checkLiveness(w http.ResponseWriter, r *http.Request, id string) (domain.Session, error) {
	return h.SessionService.CheckLiveness(r.Context(), id)
}

func (h *StepsHandler) checkLocation(w http.ResponseWriter, r *http.Request, id string) (domain.Session, error) {
	var req kycsdk.GPSRequest
	if err := decode(w, r, &req); err != nil {
		return domain.Session{}, err
	}

	if req.Skip {
		return h.SessionService.SkipGPS(r.Context(), id)
	}

	missing := map[string]string{}
	if req.Latitude == nil {
		missing["latitude"] = "is required"
	}
	if req.Longitude == nil {
		missing["longitude"] = "is required"
	}
	if len(missing) > 0 {
		return domain.Session{}, &service.ValidationError{Fields: missing}
	}

	return h.SessionService.CheckGPS(r.Context(), id, service.GPSInput{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	})
}

func (h *StepsHandler) riskSummary(_ http.ResponseWriter, r *http.Request, id string) (domain.Session, error) {
	return h.SessionService.ComputeRisk(r.Context(), id, deviceContext(r))
}

func decodeImage(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	var req kycsdk.CaptureRequest
	if err := decodeOptional(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return nil, errBodyWritten{}
	}
	if len(req.Image) == 0 {
		return nil, &service.ValidationError{Fields: map[string]string{"image": "is required"}}
	}
	return req.Image, nil
}

// HandleSendOTP godoc
//
//	@Summary		Send Verification Code
//	@Description	Send a one time code to the phone number from the user info step. Sending again replaces the previous code. The session does not advance.
//	@Tags			Steps
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	kycsdk.OTPSendResponse
//	@Failure		409	{object}	kycsdk.ErrorResponse	"step_out_of_order"
//	@Failure		429	{object}	kycsdk.ErrorResponse	"rate_limit_exceeded"
//	@Failure		503	{object}	kycsdk.ErrorResponse	"provider_unavailable"
//	@Router			/v1/sessions/{id}/otp/send [post].
func (h *StepsHandler) HandleSendOTP(w http.ResponseWriter, r *http.Request) {
	out, err := h.SessionService.SendOTP(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, otpSendResponse{
		Destination: out.Destination,
		ExpiresAt:   out.Result.ExpiresAt,
		Session:     out.Session,
	})
}

// otpSendResponse mirrors kycsdk.OTPSendResponse with the server's session
// type.
type otpSendResponse struct {
	Destination string         `json:"destination"`
	ExpiresAt   time.Time      `json:"expiresAt"`
	Session     domain.Session `json:"session"`
}
