// Package provider defines the verification signal sources the KYC flow
// consumes (OCR, document authenticity, face match, liveness, OTP, geolocation
// and fraud signals) together with the implementations the service ships:
// deterministic simulators, a remote gateway client and a TOTP based OTP
// sender.
//
// Scores returned by providers are on a 0..1 scale; the service converts
// them to the 0..100 scale stored on sessions.
package provider

import (
	"context"
	"time"
)

// Image is a decoded capture ready to hand to a provider.
type Image struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
	Digest      string
}

type OCRResult struct {
	DocumentNumber string
	FirstName      string
	LastName       string
	DateOfBirth    string
	ExpiryDate     string
	Confidence     float64
}

type LivenessResult struct {
	LivenessDetected bool
	PulseDetected    bool
	DeepfakeDetected bool
	DepthMapVerified bool
	Confidence       float64
}

type OTPResult struct {
	Verified     bool
	ExpiresAt    time.Time
	AttemptsLeft int
}

type Location struct {
	Latitude  float64
	Longitude float64
	Address   string
}

type AddressMatch struct {
	Matched    bool
	Confidence float64
}

// DeviceContext is what the transport knows about the customer's device.
type DeviceContext struct {
	UserAgent      string
	IP             string
	AcceptLanguage string
}

type DocumentReader interface {
	ReadDocument(ctx context.Context, img Image) (OCRResult, error)
}

type DocumentVerifier interface {
	// VerifyDocument returns an authenticity score.
	VerifyDocument(ctx context.Context, img Image, docType string) (float64, error)
}

type FaceMatcher interface {
	MatchFace(ctx context.Context, selfie, document Image) (float64, error)
}

type LivenessDetector interface {
	DetectLiveness(ctx context.Context, capture Image) (LivenessResult, error)
}

// OTPSender issues and checks one-time codes. phone is E.164.
type OTPSender interface {
	SendOTP(ctx context.Context, phone string) (OTPResult, error)
	VerifyOTP(ctx context.Context, phone, code string) (OTPResult, error)
}

type Geocoder interface {
	Geocode(ctx context.Context, lat, lon float64) (Location, error)
	MatchAddress(ctx context.Context, declared, resolved string) (AddressMatch, error)
}

// FraudSignals scores the device and network. ok is false when there is
// nothing to say, in which case the risk baseline applies.
type FraudSignals interface {
	DeviceScore(ctx context.Context, dev DeviceContext) (score float64, ok bool, err error)
}

// Set bundles every provider the session service needs.
type Set struct {
	Reader   DocumentReader
	Verifier DocumentVerifier
	Faces    FaceMatcher
	Liveness LivenessDetector
	OTP      OTPSender
	Geo      Geocoder
	Fraud    FraudSignals
}
