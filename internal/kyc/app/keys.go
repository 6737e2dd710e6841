package app

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/aussiebroadwan/verity/pkg/jwtx"
)

// InitOrgKeys loads the identity provider's public keys used to verify
// organization bearer tokens. The file holds either a JWKS document or a
// single PKIX PEM public key.
//
// With no file configured the key set stays empty: /readyz reports the
// service as degraded and every organization call is rejected, while the
// customer flow keeps working.
func InitOrgKeys(cfg Config, logger *slog.Logger) (*jwtx.KeySet, *jwtx.EdDSAVerifier, error) {
	keys := jwtx.NewKeySet()
	verifier := jwtx.NewVerifierEdDSA(keys, cfg.OrgIssuer, cfg.OrgAudience)

	if cfg.OrgPublicKeys == "" {
		logger.Warn("no organization keys configured, organization endpoints will reject every token")
		return keys, verifier, nil
	}

	data, err := os.ReadFile(cfg.OrgPublicKeys)
	if err != nil {
		return nil, nil, fmt.Errorf("read organization keys: %w", err)
	}

	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		set, err := jwtx.ParseJWKS(data)
		if err != nil {
			return nil, nil, err
		}
		if err := keys.ResetFromJWKS(set); err != nil {
			return nil, nil, fmt.Errorf("load organization jwks: %w", err)
		}
		logger.Info("organization keys loaded", "source", "jwks", "num_keys", len(set.Keys))
		return keys, verifier, nil
	}

	pub, err := jwtx.ParseEd25519PublicKeyPEM(data)
	if err != nil {
		return nil, nil, err
	}
	// A bare PEM key has no kid; tokens must carry kid "default"
	if err := keys.AddPublicKey("default", pub); err != nil {
		return nil, nil, err
	}
	logger.Info("organization keys loaded", "source", "pem", "num_keys", 1)
	return keys, verifier, nil
}

// InitProviderSigner loads the key this service signs gateway requests with.
func InitProviderSigner(cfg Config) (*jwtx.EdDSASigner, error) {
	data, err := os.ReadFile(cfg.ProviderSigningKey)
	if err != nil {
		return nil, fmt.Errorf("read provider signing key: %w", err)
	}
	signer, err := jwtx.NewSignerEdDSA("verity", data)
	if err != nil {
		return nil, fmt.Errorf("load provider signing key: %w", err)
	}
	return signer, nil
}
