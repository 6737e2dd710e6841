package risk

import "github.com/aussiebroadwan/verity/internal/kyc/domain"

const factorPassScore = 85.0

// Reasons lists human readable grounds for a decision, derived from the
// assessment so that the same session always yields the same list.
func Reasons(a *domain.RiskAssessment, status domain.SessionStatus, gpsSkipped bool) []string {
	if a == nil {
		return []string{"No risk assessment recorded"}
	}

	if status == domain.StatusApproved && a.RiskLevel == domain.RiskGreen {
		out := []string{
			"Document authenticity verified",
			"Face match and liveness confirmed",
		}
		if !gpsSkipped {
			out = append(out, "GPS location validated")
		}
		return append(out, "Low risk score achieved")
	}

	var out []string
	if a.DocumentAuthenticity < factorPassScore {
		out = append(out, "Document quality issues detected")
	}
	if a.FaceMatchScore < factorPassScore {
		out = append(out, "Face match score below threshold")
	}
	if !gpsSkipped && a.GPSMatch < factorPassScore {
		out = append(out, "GPS location mismatch")
	}
	if a.PhoneVerification < PhoneVerifiedScore {
		out = append(out, "Phone number not verified")
	}
	if a.DeviceNetworkScore < AmberThreshold {
		out = append(out, "Suspicious device or network signals")
	}
	if a.RiskLevel == domain.RiskRed {
		out = append(out, "High risk factors identified")
	}
	if status == domain.StatusApproved {
		return append([]string{"Approved after manual review"}, out...)
	}
	if len(out) == 0 {
		out = append(out, "Referred for manual review")
	}
	return out
}

// Recommendations returns follow-up actions for a risk level.
func Recommendations(level domain.RiskLevel) []string {
	switch level {
	case domain.RiskAmber:
		return []string{
			"Request an additional proof of address",
			"Have a reviewer compare the document photo with the selfie",
		}
	case domain.RiskRed:
		return []string{
			"Reject the application or escalate to the fraud team",
			"Do not retry verification from the same device without review",
		}
	default:
		return nil
	}
}
