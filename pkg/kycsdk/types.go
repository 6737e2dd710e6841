package kycsdk

import "time"

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the body of every failed request except validation
// failures.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ValidationErrorResponse lists every rejected field.
type ValidationErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// ============================================================================
// Health Types
// ============================================================================

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Keys     string `json:"keys"`
	Lock     string `json:"lock,omitempty"`
	Audit    string `json:"audit,omitempty"`
}

// ============================================================================
// Invitation Types
// ============================================================================

type Branding struct {
	CompanyName  string `json:"companyName,omitempty"`
	LogoURL      string `json:"logoUrl,omitempty"`
	PrimaryColor string `json:"primaryColor,omitempty"`
}

// CreateInvitationRequest is the body of POST /v1/invitations. A nil
// UsageLimit means unlimited; empty RequiredDocuments means the full catalog.
type CreateInvitationRequest struct {
	Name              string    `json:"name"`
	UsageLimit        *int      `json:"usageLimit,omitempty"`
	CustomBranding    *Branding `json:"customBranding,omitempty"`
	RequiredDocuments []string  `json:"requiredDocuments,omitempty"`
}

// Invitation is the organization's view of an invitation link.
type Invitation struct {
	ID                string     `json:"id"`
	OrganizationID    string     `json:"organizationId"`
	Code              string     `json:"code"`
	URL               string     `json:"url"`
	Name              string     `json:"name"`
	UsageLimit        *int       `json:"usageLimit"`
	UsageCount        int        `json:"usageCount"`
	IsActive          bool       `json:"isActive"`
	ExpiresAt         time.Time  `json:"expiresAt"`
	CustomBranding    *Branding  `json:"customBranding,omitempty"`
	RequiredDocuments []string   `json:"requiredDocuments"`
	CreatedBy         string     `json:"createdBy"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	RevokedAt         *time.Time `json:"revokedAt,omitempty"`
}

type InvitationList struct {
	Invitations []Invitation `json:"invitations"`
	Total       int          `json:"total"`
}

// InvitationPreview is what a customer sees when opening a link.
type InvitationPreview struct {
	Name              string    `json:"name"`
	CustomBranding    *Branding `json:"customBranding,omitempty"`
	RequiredDocuments []string  `json:"requiredDocuments"`
	ExpiresAt         time.Time `json:"expiresAt"`
}

// ============================================================================
// Session Types
// ============================================================================

const (
	StatusPending     = "pending"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
	StatusNeedsReview = "needs_review"
)

// Step names accepted by POST /v1/sessions/{id}/steps/{step}.
const (
	StepWelcome           = "welcome"
	StepUserInfo          = "user_info"
	StepPhoneVerification = "phone_verification"
	StepDocumentSelection = "document_selection"
	StepDocumentCapture   = "document_capture"
	StepDocumentReview    = "document_review"
	StepSelfieCapture     = "selfie_capture"
	StepLivenessCheck     = "liveness_check"
	StepGPSCheck          = "gps_check"
	StepRiskSummary       = "risk_summary"
	StepResult            = "result"
)

// Document types accepted by the document selection step.
const (
	DocumentPassport       = "passport"
	DocumentNationalID     = "national_id"
	DocumentDriversLicense = "drivers_license"
	DocumentAadhaar        = "aadhaar"
	DocumentUtilityBill    = "utility_bill"
)

type Session struct {
	ID                string   `json:"id"`
	OrganizationID    string   `json:"organizationId"`
	InvitationID      string   `json:"invitationId,omitempty"`
	CurrentStep       int      `json:"currentStep"`
	Status            string   `json:"status"`
	RequiredDocuments []string `json:"requiredDocuments"`

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
	Version   int64     `json:"version"`
}

type SessionList struct {
	Sessions []Session `json:"sessions"`
	Total    int       `json:"total"`
}

// ListOptions selects one page of a listing. Status applies to sessions only.
type ListOptions struct {
	Status string
	Limit  int
	Offset int
}

type Preferences struct {
	Language      string `json:"language"`
	VoiceGuidance bool   `json:"voiceGuidance"`
}

type UserInfo struct {
	FullName    string `json:"fullName"`
	DateOfBirth string `json:"dateOfBirth"`
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
	Type              string         `json:"type"`
	CapturedImage     string         `json:"capturedImage,omitempty"`
	Width             int            `json:"width,omitempty"`
	Height            int            `json:"height,omitempty"`
	Digest            string         `json:"digest,omitempty"`
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

type GPS struct {
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	Address         string  `json:"address,omitempty"`
	Matched         bool    `json:"matched"`
	MatchConfidence float64 `json:"matchConfidence"`
	Skipped         bool    `json:"skipped,omitempty"`
}

type RiskFactor struct {
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Impact      string  `json:"impact"`
	Description string  `json:"description"`
}

type RiskAssessment struct {
	DocumentAuthenticity float64      `json:"documentAuthenticity"`
	FaceMatchScore       float64      `json:"faceMatchScore"`
	GPSMatch             float64      `json:"gpsMatch"`
	PhoneVerification    float64      `json:"phoneVerification"`
	LivenessScore        float64      `json:"livenessScore"`
	DeviceNetworkScore   float64      `json:"deviceNetworkScore"`
	Factors              []RiskFactor `json:"factors"`
	SystemRiskScore      float64      `json:"systemRiskScore"`
	RiskLevel            string       `json:"riskLevel"`
	Explanation          string       `json:"explanation"`
	ComputedAt           time.Time    `json:"computedAt"`
}

type Decision struct {
	Status    string    `json:"status"`
	DecidedBy string    `json:"decidedBy"`
	Notes     string    `json:"notes,omitempty"`
	Reasons   []string  `json:"reasons"`
	DecidedAt time.Time `json:"decidedAt"`
}

// ============================================================================
// Step Requests
// ============================================================================

type PreferencesRequest struct {
	Language      string `json:"language"`
	VoiceGuidance bool   `json:"voiceGuidance"`
}

type UserInfoRequest struct {
	FullName    string `json:"fullName"`
	DateOfBirth string `json:"dateOfBirth"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address"`
}

type VerifyOTPRequest struct {
	Code string `json:"code"`
}

// OTPSendResponse reports where the code went, masked.
type OTPSendResponse struct {
	Destination string    `json:"destination"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Session     Session   `json:"session"`
}

type DocumentSelectionRequest struct {
	DocumentType string `json:"documentType"`
}

// CaptureRequest carries an encoded JPEG or PNG. Image is base64 on the wire.
type CaptureRequest struct {
	Image []byte `json:"image,omitempty"`
}

type DocumentReviewRequest struct {
	Confirmed      bool   `json:"confirmed"`
	DocumentNumber string `json:"documentNumber,omitempty"`
	FirstName      string `json:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	DateOfBirth    string `json:"dateOfBirth,omitempty"`
	ExpiryDate     string `json:"expiryDate,omitempty"`
}

// GPSRequest submits a location, or skips the step when Skip is set and the
// organization allows it.
type GPSRequest struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Skip      bool     `json:"skip,omitempty"`
}

type RetakeRequest struct {
	Step string `json:"step"`
}

// DecisionRequest records a reviewer decision. The reviewer identity comes
// from the bearer token.
type DecisionRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// ============================================================================
// Report Types
// ============================================================================

type ReportPersonal struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"dateOfBirth"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

type Report struct {
	SessionID       string         `json:"sessionId"`
	OrganizationID  string         `json:"organizationId"`
	Status          string         `json:"status"`
	DecidedBy       string         `json:"decidedBy"`
	DecidedAt       time.Time      `json:"decidedAt"`
	Notes           string         `json:"notes,omitempty"`
	Personal        ReportPersonal `json:"personal"`
	DocumentType    string         `json:"documentType,omitempty"`
	GPSSkipped      bool           `json:"gpsSkipped"`
	Risk            RiskAssessment `json:"risk"`
	Reasons         []string       `json:"reasons"`
	Recommendations []string       `json:"recommendations"`
}
