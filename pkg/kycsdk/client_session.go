package kycsdk

import (
	"context"
	"net/http"
	"net/url"
)

// StartSession launches an org-internal session. Requires the kyc:admin
// scope.
func (c *SDKClient) StartSession(ctx context.Context) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/sessions", nil)
	if err != nil {
		return nil, err
	}
	return decodeSession(resp, http.StatusCreated)
}

// ListSessions returns a page of the organization's sessions, newest first.
// Set opts.Status to StatusNeedsReview for the review queue.
func (c *SDKClient) ListSessions(ctx context.Context, opts ListOptions) (*SessionList, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/organizations/sessions"+opts.query(), nil)
	if err != nil {
		return nil, err
	}

	var list SessionList
	if err := decodeJSON(resp, &list, http.StatusOK); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *SDKClient) GetSession(ctx context.Context, id string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, sessionPath(id, ""), nil)
	if err != nil {
		return nil, err
	}
	return decodeSession(resp, http.StatusOK)
}

// SubmitStep posts the payload for the named step and returns the updated
// session. The typed helpers below cover every step.
func (c *SDKClient) SubmitStep(ctx context.Context, id, step string, body any) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, sessionPath(id, "/steps/"+url.PathEscape(step)), body)
	if err != nil {
		return nil, err
	}
	return decodeSession(resp, http.StatusOK)
}

func (c *SDKClient) SubmitPreferences(ctx context.Context, id string, req PreferencesRequest) (*Session, error) {
	return c.SubmitStep(ctx, id, StepWelcome, req)
}

func (c *SDKClient) SubmitUserInfo(ctx context.Context, id string, req UserInfoRequest) (*Session, error) {
	return c.SubmitStep(ctx, id, StepUserInfo, req)
}

// SendOTP sends a verification code to the phone from the user info step.
func (c *SDKClient) SendOTP(ctx context.Context, id string) (*OTPSendResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, sessionPath(id, "/otp/send"), nil)
	if err != nil {
		return nil, err
	}

	var out OTPSendResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) VerifyOTP(ctx context.Context, id, code string) (*Session, error) {
	return c.SubmitStep(ctx, id, StepPhoneVerification, VerifyOTPRequest{Code: code})
}

func (c *SDKClient) SelectDocument(ctx context.Context, id, documentType string) (*Session, error) {
	return c.SubmitStep(ctx, id, StepDocumentSelection, DocumentSelectionRequest{DocumentType: documentType})
}

func (c *SDKClient) CaptureDocument(ctx context.Context, id string, image []byte) (*Session, error) {
	return c.SubmitStep(ctx, id, StepDocumentCapture, CaptureRequest{Image: image})
}

func (c *SDKClient) ReviewDocument(ctx context.Context, id string, req DocumentReviewRequest) (*Session, error) {
	return c.SubmitStep(ctx, id, StepDocumentReview, req)
}

func (c *SDKClient) CaptureSelfie(ctx context.Context, id string, image []byte) (*Session, error) {
	return c.SubmitStep(ctx, id, StepSelfieCapture, CaptureRequest{Image: image})
}

// CheckLiveness runs the liveness check on the captured selfie. After a
// failure only a selfie retake unlocks it again.
func (c *SDKClient) CheckLiveness(ctx context.Context, id string) (*Session, error) {
	return c.SubmitStep(ctx, id, StepLivenessCheck, struct{}{})
}

func (c *SDKClient) SubmitLocation(ctx context.Context, id string, lat, lon float64) (*Session, error) {
	return c.SubmitStep(ctx, id, StepGPSCheck, GPSRequest{Latitude: &lat, Longitude: &lon})
}

func (c *SDKClient) SkipLocation(ctx context.Context, id string) (*Session, error) {
	return c.SubmitStep(ctx, id, StepGPSCheck, GPSRequest{Skip: true})
}

// Retake moves the session back to step, clearing that step's data and
// everything after it.
func (c *SDKClient) Retake(ctx context.Context, id, step string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, sessionPath(id, "/retake"), RetakeRequest{Step: step})
	if err != nil {
		return nil, err
	}
	return decodeSession(resp, http.StatusOK)
}

// ComputeRisk aggregates the collected signals. It may be called again until
// a decision is recorded.
func (c *SDKClient) ComputeRisk(ctx context.Context, id string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, sessionPath(id, "/risk"), nil)
	if err != nil {
		return nil, err
	}
	return decodeSession(resp, http.StatusOK)
}

// Decide records the reviewer decision. Requires the kyc:review or kyc:admin
// scope.
func (c *SDKClient) Decide(ctx context.Context, id string, req DecisionRequest) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, sessionPath(id, "/decision"), req)
	if err != nil {
		return nil, err
	}
	return decodeSession(resp, http.StatusOK)
}

// GetReport returns the structured report of a decided session.
func (c *SDKClient) GetReport(ctx context.Context, id string) (*Report, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, sessionPath(id, "/report?format=json"), nil)
	if err != nil {
		return nil, err
	}

	var r Report
	if err := decodeJSON(resp, &r, http.StatusOK); err != nil {
		return nil, err
	}
	return &r, nil
}

// ExportReport returns the plain text report of a decided session.
func (c *SDKClient) ExportReport(ctx context.Context, id string) ([]byte, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, sessionPath(id, "/report"), nil)
	if err != nil {
		return nil, err
	}
	return readBody(resp, http.StatusOK)
}

func sessionPath(id, suffix string) string {
	return "/v1/sessions/" + url.PathEscape(id) + suffix
}

func decodeSession(resp *http.Response, status int) (*Session, error) {
	var sess Session
	if err := decodeJSON(resp, &sess, status); err != nil {
		return nil, err
	}
	return &sess, nil
}
