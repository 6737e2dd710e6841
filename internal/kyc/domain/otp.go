package domain

import "time"

// OTPChallenge is an outstanding one-time code sent to a phone number. The
// code itself is never stored; it is derived from the challenge id.
type OTPChallenge struct {
	ID        string
	Phone     string // E.164
	Attempts  int
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Capture is an uploaded image kept for later provider calls, e.g. the
// document photo that the selfie is matched against.
type Capture struct {
	ID          string
	SessionID   string
	Kind        CaptureKind
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

type CaptureKind string

const (
	CaptureDocument CaptureKind = "document"
	CaptureSelfie   CaptureKind = "selfie"
)
