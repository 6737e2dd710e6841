package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/verity/internal/kyc/metrics"
	"github.com/aussiebroadwan/verity/internal/kyc/provider"
	"github.com/aussiebroadwan/verity/internal/kyc/store"
	"github.com/aussiebroadwan/verity/pkg/cryptox"
)

// serviceIssuer names this service in tokens it mints for the gateway.
const serviceIssuer = "verity"

// InitProviders builds the verification providers for the configured mode
// and wraps them with tracing and latency metrics.
//
// Remote mode always issues OTP codes locally and hands delivery to the
// gateway. Simulated mode accepts the fixed code unless KYC_OTP_MODE=totp,
// in which case real codes are issued and written to the log.
func InitProviders(cfg Config, st store.Store, secret []byte, m *metrics.Metrics, logger *slog.Logger) (provider.Set, error) {
	otpSecret, err := cryptox.DeriveKey(secret, "verity/otp", 32)
	if err != nil {
		return provider.Set{}, fmt.Errorf("derive otp secret: %w", err)
	}
	newTOTP := func(d provider.Deliverer) *provider.TOTP {
		t := provider.NewTOTP(st.OTPChallenges(), d, otpSecret)
		t.TTL = cfg.OTPTTL
		t.MaxAttempts = cfg.OTPMaxAttempts
		return t
	}

	var set provider.Set
	switch cfg.ProviderMode {
	case "remote":
		signer, err := InitProviderSigner(cfg)
		if err != nil {
			return provider.Set{}, err
		}
		remote := provider.NewRemote(cfg.ProviderURL, signer, serviceIssuer, cfg.ProviderAudience, cfg.ProviderTimeout)
		set = remote.Set(newTOTP(remote))
		logger.Info("verification providers configured", "mode", "remote", "url", cfg.ProviderURL)

	default:
		sim := provider.NewSimulated()
		set = sim.Set()
		set.Fraud = provider.UserAgentScorer{}
		if cfg.OTPMode == "totp" {
			set.OTP = newTOTP(provider.LogDeliverer{})
		}
		logger.Warn("simulated verification providers in use", "otp_mode", cfg.OTPMode)
	}

	return provider.Traced(set, m), nil
}
