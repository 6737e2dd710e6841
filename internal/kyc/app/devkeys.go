package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aussiebroadwan/verity/pkg/cryptox"
	"github.com/aussiebroadwan/verity/pkg/jwtx"
)

// DevKID is the key id of organization keys written by GenerateDevKeys.
const DevKID = "dev-1"

// DevKeyFiles lists what GenerateDevKeys wrote.
type DevKeyFiles struct {
	// OrgPrivateKey signs dev organization tokens (devtoken -key).
	OrgPrivateKey string
	// OrgJWKS is the matching KYC_ORG_PUBLIC_KEYS file.
	OrgJWKS string
	// ProviderPrivateKey is a KYC_PROVIDER_SIGNING_KEY for remote mode.
	ProviderPrivateKey string
	// ProviderPublicKey is handed to the gateway to verify service tokens.
	ProviderPublicKey string
}

// GenerateDevKeys writes a local organization key pair with its JWKS, and a
// provider signing key pair, into dir.
func GenerateDevKeys(dir string) (DevKeyFiles, error) {
	var files DevKeyFiles

	orgKey, err := cryptox.NewSigningKey()
	if err != nil {
		return files, err
	}
	signer, err := jwtx.NewSignerEdDSA(DevKID, orgKey.PrivatePEM)
	if err != nil {
		return files, err
	}
	jwks, err := json.MarshalIndent(jwtx.JWKS{Keys: []jwtx.JWK{signer.PublicJWK()}}, "", "  ")
	if err != nil {
		return files, err
	}

	if files.OrgPrivateKey, _, err = orgKey.WriteFiles(dir, "dev-signing"); err != nil {
		return files, err
	}
	files.OrgJWKS = filepath.Join(dir, "dev-jwks.json")
	if err := os.WriteFile(files.OrgJWKS, jwks, 0o644); err != nil {
		return files, err
	}

	providerKey, err := cryptox.NewSigningKey()
	if err != nil {
		return files, err
	}
	files.ProviderPrivateKey, files.ProviderPublicKey, err = providerKey.WriteFiles(dir, "provider-signing")
	if err != nil {
		return files, err
	}
	return files, nil
}

// DevTokenRequest describes an organization operator token.
type DevTokenRequest struct {
	Subject string
	OrgID   string
	Scopes  []string
	TTL     time.Duration
}

// IssueDevToken signs an organization token with the PEM key at keyPath
// for the issuer and audience in cfg.
func IssueDevToken(cfg Config, keyPath string, req DevTokenRequest) (string, error) {
	if req.OrgID == "" {
		return "", fmt.Errorf("organization id is required")
	}
	if req.TTL <= 0 {
		req.TTL = time.Hour
	}
	if req.Subject == "" {
		req.Subject = "dev-operator"
	}

	pemKey, err := os.ReadFile(keyPath)
	if err != nil {
		return "", fmt.Errorf("read signing key: %w", err)
	}
	signer, err := jwtx.NewSignerEdDSA(DevKID, pemKey)
	if err != nil {
		return "", err
	}

	claims := jwtx.NewOrgClaims(req.Subject, req.OrgID, req.Scopes, req.TTL, cfg.OrgIssuer, cfg.OrgAudience, time.Now())
	return signer.Sign(claims)
}
