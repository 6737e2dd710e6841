package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/verity/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewOrgClaims(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := jwtx.NewOrgClaims("usr_1", "org_a", []string{"kyc:read"}, time.Hour, "idp", []string{"verity"}, now)

	require.Equal(t, "usr_1", c.Subject)
	require.Equal(t, "org_a", c.OrgID)
	require.Equal(t, now.Add(time.Hour), c.ExpiresAt.Time)
	require.NotEmpty(t, c.ID)
	require.True(t, c.HasScope("kyc:read"))
	require.False(t, c.HasScope("kyc:admin"))
}

func TestClaimsValidation(t *testing.T) {
	now := time.Now().UTC()

	t.Run("issuer", func(t *testing.T) {
		c := jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "a"}}
		require.NoError(t, c.ValidateIssuer(""))
		require.NoError(t, c.ValidateIssuer("a"))
		require.ErrorIs(t, c.ValidateIssuer("b"), jwtx.ErrIssuer)
	})

	t.Run("audience", func(t *testing.T) {
		c := jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Audience: jwt.ClaimStrings{"x", "y"}}}
		require.NoError(t, c.ValidateAudience(nil))
		require.NoError(t, c.ValidateAudience([]string{"z", "y"}))
		require.ErrorIs(t, c.ValidateAudience([]string{"z"}), jwtx.ErrAudience)
	})

	t.Run("expiry with leeway", func(t *testing.T) {
		c := jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(-10 * time.Second)),
		}}
		require.NoError(t, c.ValidateExpiryWithLeeway(now, 30*time.Second))
		require.ErrorIs(t, c.ValidateExpiryWithLeeway(now, 0), jwtx.ErrExpired)
	})

	t.Run("not before", func(t *testing.T) {
		c := jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
			NotBefore: jwt.NewNumericDate(now.Add(time.Minute)),
		}}
		require.ErrorIs(t, c.ValidateExpiryWithLeeway(now, time.Second), jwtx.ErrNotYetValid)
	})
}
