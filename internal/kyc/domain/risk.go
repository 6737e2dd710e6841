package domain

import "time"

type RiskLevel string

const (
	RiskGreen RiskLevel = "green"
	RiskAmber RiskLevel = "amber"
	RiskRed   RiskLevel = "red"
)

type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

type RiskFactor struct {
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Impact      Impact  `json:"impact"`
	Description string  `json:"description"`
}

// RiskAssessment is the output of the risk aggregator. The per-factor fields
// hold the scores that were weighted, after any transform and clamping.
// A written assessment is never edited; re-scoring replaces it.
type RiskAssessment struct {
	DocumentAuthenticity float64 `json:"documentAuthenticity"`
	FaceMatchScore       float64 `json:"faceMatchScore"`
	GPSMatch             float64 `json:"gpsMatch"`
	PhoneVerification    float64 `json:"phoneVerification"`
	LivenessScore        float64 `json:"livenessScore"`
	DeviceNetworkScore   float64 `json:"deviceNetworkScore"`

	Factors         []RiskFactor `json:"factors"`
	SystemRiskScore float64      `json:"systemRiskScore"`
	RiskLevel       RiskLevel    `json:"riskLevel"`
	Explanation     string       `json:"explanation"`
	ComputedAt      time.Time    `json:"computedAt"`
}
