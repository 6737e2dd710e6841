package provider

import (
	"context"
	"strings"

	"github.com/mssola/useragent"
)

// UserAgentScorer derives a device score from the User-Agent header. It is a
// cheap local signal; a real fraud vendor can replace it through the
// FraudSignals interface.
type UserAgentScorer struct{}

const (
	deviceLegitimate = 0.92
	deviceUnknown    = 0.70
	deviceHeadless   = 0.25
	deviceBot        = 0.10

	missingLanguagePenalty = 0.05
)

// DeviceScore returns ok=false when there is no User-Agent to judge.
func (UserAgentScorer) DeviceScore(_ context.Context, dev DeviceContext) (float64, bool, error) {
	raw := strings.TrimSpace(dev.UserAgent)
	if raw == "" {
		return 0, false, nil
	}

	ua := useragent.New(raw)
	if ua.Bot() {
		return deviceBot, true, nil
	}

	name, _ := ua.Browser()
	if strings.Contains(raw, "HeadlessChrome") || strings.Contains(name, "Headless") {
		return deviceHeadless, true, nil
	}

	score := deviceLegitimate
	if name == "" || ua.OS() == "" {
		score = deviceUnknown
	}
	if dev.AcceptLanguage == "" {
		score -= missingLanguagePenalty
	}
	return score, true, nil
}
