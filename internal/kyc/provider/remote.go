package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/verity/pkg/jwtx"
)

// Remote talks JSON to the verification gateway that fronts the OCR,
// biometric, geolocation and SMS vendors. Every request carries a short lived
// EdDSA bearer token minted by Signer.
type Remote struct {
	BaseURL    string
	HTTPClient *http.Client
	Signer     jwtx.Signer
	Issuer     string
	Audience   string

	now func() time.Time
}

// NewRemote creates a gateway client. timeout bounds each call in addition to
// the request context.
func NewRemote(baseURL string, signer jwtx.Signer, issuer, audience string, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Remote{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		Signer:     signer,
		Issuer:     issuer,
		Audience:   audience,
		now:        time.Now,
	}
}

// Set returns the remote providers. OTP codes are issued locally by a TOTP
// sender which uses Remote only for delivery.
func (r *Remote) Set(otp OTPSender) Set {
	return Set{
		Reader:   r,
		Verifier: r,
		Faces:    r,
		Liveness: r,
		OTP:      otp,
		Geo:      r,
		Fraud:    r,
	}
}

type imagePayload struct {
	Data        []byte `json:"data"` // base64 in JSON
	ContentType string `json:"contentType"`
}

func payload(img Image) imagePayload {
	return imagePayload{Data: img.Data, ContentType: img.ContentType}
}

type scoreResponse struct {
	Score float64 `json:"score"`
}

type gatewayError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (r *Remote) call(ctx context.Context, name, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return NewError(KindInternal, name, "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return NewError(KindInternal, name, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if r.Signer != nil {
		token, err := r.Signer.Sign(jwtx.NewServiceClaims(r.Issuer, r.Audience, r.now().UTC()))
		if err != nil {
			return NewError(KindAuth, name, "sign service token", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Wrap(name, ctx.Err())
		}
		return NewError(KindOutage, name, "send request", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return NewError(KindOutage, name, "read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var ge gatewayError
		_ = json.Unmarshal(raw, &ge)
		msg := ge.Message
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return NewError(kindForStatus(resp.StatusCode), name, msg, nil)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return NewError(KindBadData, name, "decode response", err)
	}
	return nil
}

func kindForStatus(code int) Kind {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return KindAuth
	case code == http.StatusTooManyRequests:
		return KindRateLimited
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return KindTimeout
	case code >= 500:
		return KindOutage
	case code == http.StatusUnprocessableEntity:
		return KindRejected
	default:
		return KindBadData
	}
}

func (r *Remote) ReadDocument(ctx context.Context, img Image) (OCRResult, error) {
	var out struct {
		DocumentNumber string  `json:"documentNumber"`
		FirstName      string  `json:"firstName"`
		LastName       string  `json:"lastName"`
		DateOfBirth    string  `json:"dateOfBirth"`
		ExpiryDate     string  `json:"expiryDate"`
		Confidence     float64 `json:"confidence"`
	}
	if err := r.call(ctx, "ocr", "/v1/documents/ocr", map[string]any{"image": payload(img)}, &out); err != nil {
		return OCRResult{}, err
	}
	return OCRResult(out), nil
}

func (r *Remote) VerifyDocument(ctx context.Context, img Image, docType string) (float64, error) {
	var out scoreResponse
	err := r.call(ctx, "document", "/v1/documents/verify", map[string]any{
		"image":        payload(img),
		"documentType": docType,
	}, &out)
	return out.Score, err
}

func (r *Remote) MatchFace(ctx context.Context, selfie, document Image) (float64, error) {
	var out scoreResponse
	err := r.call(ctx, "face", "/v1/faces/match", map[string]any{
		"selfie":   payload(selfie),
		"document": payload(document),
	}, &out)
	return out.Score, err
}

func (r *Remote) DetectLiveness(ctx context.Context, capture Image) (LivenessResult, error) {
	var out struct {
		LivenessDetected bool    `json:"livenessDetected"`
		PulseDetected    bool    `json:"pulseDetected"`
		DeepfakeDetected bool    `json:"deepfakeDetected"`
		DepthMapVerified bool    `json:"depthMapVerified"`
		Confidence       float64 `json:"confidence"`
	}
	if err := r.call(ctx, "liveness", "/v1/liveness", map[string]any{"image": payload(capture)}, &out); err != nil {
		return LivenessResult{}, err
	}
	return LivenessResult(out), nil
}

func (r *Remote) Geocode(ctx context.Context, lat, lon float64) (Location, error) {
	var out struct {
		Address string `json:"address"`
	}
	err := r.call(ctx, "geo", "/v1/geo/reverse", map[string]float64{"latitude": lat, "longitude": lon}, &out)
	return Location{Latitude: lat, Longitude: lon, Address: out.Address}, err
}

func (r *Remote) MatchAddress(ctx context.Context, declared, resolved string) (AddressMatch, error) {
	var out struct {
		Matched    bool    `json:"matched"`
		Confidence float64 `json:"confidence"`
	}
	err := r.call(ctx, "geo", "/v1/geo/match", map[string]string{"declared": declared, "resolved": resolved}, &out)
	return AddressMatch(out), err
}

func (r *Remote) DeviceScore(ctx context.Context, dev DeviceContext) (float64, bool, error) {
	var out struct {
		Score float64 `json:"score"`
		Known bool    `json:"known"`
	}
	err := r.call(ctx, "fraud", "/v1/fraud/device", map[string]string{
		"userAgent":      dev.UserAgent,
		"ip":             dev.IP,
		"acceptLanguage": dev.AcceptLanguage,
	}, &out)
	return out.Score, out.Known, err
}

// Deliver sends an OTP by SMS through the gateway.
func (r *Remote) Deliver(ctx context.Context, phone, code string) error {
	return r.call(ctx, "sms", "/v1/sms", map[string]string{
		"to":      phone,
		"message": "Your Verity verification code is " + code,
	}, nil)
}
