package domain

import "strconv"

// Step is a position in the KYC flow. Steps are ordered; a session only ever
// moves forward one step at a time, or back through a retake.
type Step int

const (
	StepWelcome Step = iota
	StepUserInfo
	StepPhoneVerification
	StepDocumentSelection
	StepDocumentCapture
	StepDocumentReview
	StepSelfieCapture
	StepLivenessCheck
	StepGPSCheck
	StepRiskSummary
	StepResult
)

const (
	FirstStep = StepWelcome
	LastStep  = StepResult
)

var stepNames = [...]string{
	StepWelcome:           "welcome",
	StepUserInfo:          "user_info",
	StepPhoneVerification: "phone_verification",
	StepDocumentSelection: "document_selection",
	StepDocumentCapture:   "document_capture",
	StepDocumentReview:    "document_review",
	StepSelfieCapture:     "selfie_capture",
	StepLivenessCheck:     "liveness_check",
	StepGPSCheck:          "gps_check",
	StepRiskSummary:       "risk_summary",
	StepResult:            "result",
}

func (s Step) Valid() bool { return s >= FirstStep && s <= LastStep }

func (s Step) String() string {
	if !s.Valid() {
		return "step(" + strconv.Itoa(int(s)) + ")"
	}
	return stepNames[s]
}

// ParseStep accepts either the step name ("document_capture") or its index
// ("4").
func ParseStep(v string) (Step, bool) {
	if n, err := strconv.Atoi(v); err == nil {
		s := Step(n)
		return s, s.Valid()
	}
	for i, name := range stepNames {
		if name == v {
			return Step(i), true
		}
	}
	return 0, false
}
