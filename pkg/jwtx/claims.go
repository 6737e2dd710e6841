package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultServiceTokenTTL bounds the bearer tokens this service mints for
// outbound calls to verification providers.
const DefaultServiceTokenTTL = 2 * time.Minute

// Claims are the bearer claims exchanged with the organization identity
// provider and with remote verification providers.
type Claims struct {
	jwt.RegisteredClaims

	// OrgID is the tenant the caller acts for. Organization tokens without
	// it are rejected.
	OrgID string `json:"org_id,omitempty"`

	// Permission scopes, e.g. "kyc:read", "kyc:admin", "kyc:review"
	Scopes []string `json:"scopes,omitempty"`

	// Name is the display name of the reviewer, recorded on decisions.
	Name string `json:"name,omitempty"`
}

// NewOrgClaims builds claims for an organization operator. Production tokens
// come from the external identity provider; this is used by tests and the
// dev token command.
func NewOrgClaims(
	subject, orgID string,
	scopes []string,
	ttl time.Duration,
	issuer string,
	audience []string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		OrgID:  orgID,
		Scopes: scopes,
	}
}

// NewServiceClaims builds the short lived claims used to authenticate this
// service against a remote provider gateway.
func NewServiceClaims(issuer, audience string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(DefaultServiceTokenTTL)),
			ID:        NewJTI(),
		},
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// HasScope reports whether the claims grant scope.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateAudience checks if at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}

	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}

	return ErrAudience
}

// ValidateExpiryWithLeeway checks exp and nbf allowing for clock skew
// between us and the identity provider.
func (c *Claims) ValidateExpiryWithLeeway(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}
