// Package risk turns verification signals into a weighted risk score and a
// green/amber/red tier. Everything here is pure; callers supply the clock.
package risk

import (
	"fmt"
	"time"

	"github.com/aussiebroadwan/verity/internal/kyc/domain"
	"github.com/shopspring/decimal"
)

const (
	// LivenessBaseline is the liveness factor score once the hard gate passed.
	LivenessBaseline = 98.0

	// DeviceBaseline is used when no fraud signal overrides the device factor.
	DeviceBaseline = 92.0

	PhoneVerifiedScore   = 95.0
	PhoneUnverifiedScore = 40.0

	GreenThreshold = 85.0
	AmberThreshold = 60.0
)

var (
	weightDocument = decimal.RequireFromString("0.25")
	weightFace     = decimal.RequireFromString("0.25")
	weightLiveness = decimal.RequireFromString("0.15")
	weightGPS      = decimal.RequireFromString("0.15")
	weightPhone    = decimal.RequireFromString("0.10")
	weightDevice   = decimal.RequireFromString("0.10")

	gpsScale = decimal.RequireFromString("1.11")

	hundred = decimal.NewFromInt(100)
)

const (
	ExplanationGreen = "All verification checks passed successfully. User qualifies for straight-through processing."
	ExplanationAmber = "Some verification factors require manual review. Recommend additional verification steps."
	ExplanationRed   = "Verification failed key security checks. Recommend rejection or additional investigation."
)

// Inputs are the raw signals collected by the flow, all on a 0..100 scale.
type Inputs struct {
	DocumentAuthenticity float64
	FaceMatch            float64

	// GPSConfidence is the address match confidence. It is scaled by 1.11
	// before weighting.
	GPSConfidence float64

	// GPSSkipped drops the GPS factor and spreads its weight across the rest.
	GPSSkipped bool

	PhoneVerified bool

	// DeviceScore overrides DeviceBaseline when a fraud signal was available.
	DeviceScore *float64
}

// Aggregate scores in. Every factor is clamped to [0,100] before weighting,
// so one out-of-range provider value cannot dominate the composite.
func Aggregate(in Inputs, now time.Time) domain.RiskAssessment {
	doc := clamp(decimal.NewFromFloat(in.DocumentAuthenticity))
	face := clamp(decimal.NewFromFloat(in.FaceMatch))
	liveness := decimal.NewFromFloat(LivenessBaseline)
	gps := clamp(decimal.NewFromFloat(in.GPSConfidence).Mul(gpsScale))

	phone := decimal.NewFromFloat(PhoneUnverifiedScore)
	if in.PhoneVerified {
		phone = decimal.NewFromFloat(PhoneVerifiedScore)
	}

	device := decimal.NewFromFloat(DeviceBaseline)
	if in.DeviceScore != nil {
		device = clamp(decimal.NewFromFloat(*in.DeviceScore))
	}

	wGPS := weightGPS
	if in.GPSSkipped {
		gps = decimal.Zero
		wGPS = decimal.Zero
	}

	sum := doc.Mul(weightDocument).
		Add(face.Mul(weightFace)).
		Add(liveness.Mul(weightLiveness)).
		Add(gps.Mul(wGPS)).
		Add(phone.Mul(weightPhone)).
		Add(device.Mul(weightDevice))

	total := decimal.NewFromInt(1)
	if in.GPSSkipped {
		total = weightDocument.Add(weightFace).Add(weightLiveness).Add(weightPhone).Add(weightDevice)
	}

	// Truncated, never rounded: a composite just under a threshold must not
	// be stored as the threshold itself.
	quo, _ := sum.QuoRem(total, 4)
	score := clamp(quo).InexactFloat64()
	level := Tier(score)

	a := domain.RiskAssessment{
		DocumentAuthenticity: doc.InexactFloat64(),
		FaceMatchScore:       face.InexactFloat64(),
		GPSMatch:             gps.InexactFloat64(),
		PhoneVerification:    phone.InexactFloat64(),
		LivenessScore:        liveness.InexactFloat64(),
		DeviceNetworkScore:   device.InexactFloat64(),
		SystemRiskScore:      score,
		RiskLevel:            level,
		Explanation:          Explanation(level),
		ComputedAt:           now.UTC(),
	}
	a.Factors = factors(a, in)
	return a
}

// Tier maps a composite score to its risk level.
func Tier(score float64) domain.RiskLevel {
	switch {
	case score >= GreenThreshold:
		return domain.RiskGreen
	case score >= AmberThreshold:
		return domain.RiskAmber
	default:
		return domain.RiskRed
	}
}

func Explanation(level domain.RiskLevel) string {
	switch level {
	case domain.RiskGreen:
		return ExplanationGreen
	case domain.RiskAmber:
		return ExplanationAmber
	default:
		return ExplanationRed
	}
}

func factors(a domain.RiskAssessment, in Inputs) []domain.RiskFactor {
	docDesc := "most"
	if a.DocumentAuthenticity > 90 {
		docDesc = "all"
	}
	faceDesc := "Moderate"
	if a.FaceMatchScore > 90 {
		faceDesc = "High"
	}
	gpsDesc := "Address partially matches with GPS location"
	switch {
	case in.GPSSkipped:
		gpsDesc = "Location check not required by organization"
	case in.GPSConfidence > 85:
		gpsDesc = "Address matches with GPS location"
	}
	phoneDesc := "not verified"
	if in.PhoneVerified {
		phoneDesc = "verified"
	}
	deviceDesc := "Device and network patterns appear legitimate"
	if a.DeviceNetworkScore < AmberThreshold {
		deviceDesc = "Device or network patterns look automated or unusual"
	}

	return []domain.RiskFactor{
		{Name: "Document Authenticity", Score: a.DocumentAuthenticity, Impact: domain.ImpactHigh,
			Description: fmt.Sprintf("Document passed %s authenticity checks", docDesc)},
		{Name: "Face Match Score", Score: a.FaceMatchScore, Impact: domain.ImpactHigh,
			Description: faceDesc + " confidence in facial match"},
		{Name: "Liveness Detection", Score: a.LivenessScore, Impact: domain.ImpactHigh,
			Description: "Active liveness confirmed with pulse detection"},
		{Name: "GPS Address Verification", Score: a.GPSMatch, Impact: domain.ImpactMedium,
			Description: gpsDesc},
		{Name: "Phone Verification", Score: a.PhoneVerification, Impact: domain.ImpactMedium,
			Description: "Phone number " + phoneDesc},
		{Name: "Device & Network Analysis", Score: a.DeviceNetworkScore, Impact: domain.ImpactLow,
			Description: deviceDesc},
	}
}

func clamp(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(hundred) {
		return hundred
	}
	return d
}
