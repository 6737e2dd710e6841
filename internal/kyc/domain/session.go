package domain

import "time"

type SessionStatus string

const (
	StatusPending     SessionStatus = "pending"
	StatusApproved    SessionStatus = "approved"
	StatusRejected    SessionStatus = "rejected"
	StatusNeedsReview SessionStatus = "needs_review"
)

func (s SessionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusNeedsReview:
		return true
	}
	return false
}

// Terminal reports whether a decision has been recorded.
func (s SessionStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusNeedsReview
}

// Session is one customer's pass through the KYC flow. It is owned by the
// server: clients submit raw input per step and read the result back.
type Session struct {
	ID                string         `json:"id"`
	OrganizationID    string         `json:"organizationId"`
	InvitationID      string         `json:"invitationId,omitempty"`
	CurrentStep       Step           `json:"currentStep"`
	Status            SessionStatus  `json:"status"`
	RequiredDocuments []DocumentType `json:"requiredDocuments"`

	Preferences       *Preferences       `json:"preferences,omitempty"`
	UserInfo          *UserInfo          `json:"userInfo,omitempty"`
	PhoneVerification *PhoneVerification `json:"phoneVerification,omitempty"`
	Document          *Document          `json:"document,omitempty"`
	Biometric         *Biometric         `json:"biometric,omitempty"`
	GPS               *GPS               `json:"gps,omitempty"`
	RiskAssessment    *RiskAssessment    `json:"riskAssessment,omitempty"`
	Decision          *Decision          `json:"decision,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Version is bumped on every save and used for optimistic concurrency.
	Version int64 `json:"version"`
}

type Preferences struct {
	Language      string `json:"language"`
	VoiceGuidance bool   `json:"voiceGuidance"`
}

type UserInfo struct {
	FullName    string `json:"fullName"`
	DateOfBirth string `json:"dateOfBirth"` // YYYY-MM-DD
	Phone       string `json:"phone"`
	PhoneE164   string `json:"phoneE164,omitempty"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address"`
}

type PhoneVerification struct {
	Phone      string     `json:"phone"`
	IsVerified bool       `json:"isVerified"`
	Attempts   int        `json:"attempts"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty"`
}

type OCRExtraction struct {
	DocumentNumber string  `json:"documentNumber"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	DateOfBirth    string  `json:"dateOfBirth"`
	ExpiryDate     string  `json:"expiryDate"`
	Confidence     float64 `json:"confidence"`
}

type Document struct {
	Type DocumentType `json:"type"`

	// CapturedImage references the stored capture, never the bytes.
	CapturedImage string `json:"capturedImage,omitempty"`
	Width         int    `json:"width,omitempty"`
	Height        int    `json:"height,omitempty"`
	Digest        string `json:"digest,omitempty"`

	OCRExtraction     *OCRExtraction `json:"ocrExtraction,omitempty"`
	AuthenticityScore float64        `json:"authenticityScore"`
	Confirmed         bool           `json:"confirmed"`
}

type Biometric struct {
	SelfieImage      string  `json:"selfieImage,omitempty"`
	FaceMatchScore   float64 `json:"faceMatchScore"`
	LivenessChecked  bool    `json:"livenessChecked"`
	LivenessDetected bool    `json:"livenessDetected"`
	PulseDetected    bool    `json:"pulseDetected"`
	DeepfakeDetected bool    `json:"deepfakeDetected"`
	DepthMapVerified bool    `json:"depthMapVerified"`
}

// LivenessPassed is the hard gate of the liveness step.
func (b *Biometric) LivenessPassed() bool {
	return b != nil && b.LivenessChecked &&
		b.LivenessDetected && b.PulseDetected && !b.DeepfakeDetected && b.DepthMapVerified
}

type GPS struct {
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	Address         string  `json:"address,omitempty"`
	Matched         bool    `json:"matched"`
	MatchConfidence float64 `json:"matchConfidence"`

	// Skipped is set when the organization does not require a location check.
	Skipped bool `json:"skipped,omitempty"`
}

type Decision struct {
	Status    SessionStatus `json:"status"`
	DecidedBy string        `json:"decidedBy"`
	Notes     string        `json:"notes,omitempty"`
	Reasons   []string      `json:"reasons"`
	DecidedAt time.Time     `json:"decidedAt"`
}

// DecidedByAuto marks decisions taken by the auto-decision policy.
const DecidedByAuto = "auto"

// Requires reports whether doc is one of the documents the session accepts.
func (s *Session) Requires(doc DocumentType) bool {
	for _, d := range s.RequiredDocuments {
		if d == doc {
			return true
		}
	}
	return false
}
