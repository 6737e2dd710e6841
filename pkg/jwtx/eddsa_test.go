package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/verity/pkg/cryptox"
	"github.com/aussiebroadwan/verity/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newSigner(t *testing.T, kid string) *jwtx.EdDSASigner {
	t.Helper()
	sk, err := cryptox.NewSigningKey()
	require.NoError(t, err)
	s, err := jwtx.NewSignerEdDSA(kid, sk.PrivatePEM)
	require.NoError(t, err)
	return s
}

func TestEdDSASignAndVerify(t *testing.T) {
	signer := newSigner(t, "k1")
	keys := jwtx.NewKeySet()
	require.False(t, keys.IsReady())
	require.NoError(t, keys.AddJWK(signer.PublicJWK()))
	require.True(t, keys.IsReady())

	v := jwtx.NewVerifierEdDSA(keys, "idp", []string{"verity"})

	t.Run("valid token", func(t *testing.T) {
		claims := jwtx.NewOrgClaims("usr_1", "org_a", []string{"kyc:admin"}, time.Hour, "idp", []string{"verity"}, time.Now())
		tok, err := signer.Sign(claims)
		require.NoError(t, err)

		got, err := v.Verify(tok)
		require.NoError(t, err)
		require.Equal(t, "org_a", got.OrgID)
		require.Equal(t, []string{"kyc:admin"}, got.Scopes)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := jwtx.NewOrgClaims("usr_1", "org_a", nil, time.Hour, "other", []string{"verity"}, time.Now())
		tok, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = v.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("expired", func(t *testing.T) {
		claims := jwtx.NewOrgClaims("usr_1", "org_a", nil, time.Minute, "idp", []string{"verity"}, time.Now().Add(-time.Hour))
		tok, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = v.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("unknown kid", func(t *testing.T) {
		other := newSigner(t, "k2")
		tok, err := other.Sign(jwtx.NewOrgClaims("usr_1", "org_a", nil, time.Hour, "idp", []string{"verity"}, time.Now()))
		require.NoError(t, err)

		_, err = v.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify("not.a.jwt")
		require.Error(t, err)
	})
}

func TestKeySetResetFromJWKS(t *testing.T) {
	a := newSigner(t, "a")
	b := newSigner(t, "b")

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddJWK(a.PublicJWK()))
	require.NoError(t, keys.ResetFromJWKS(jwtx.JWKS{Keys: []jwtx.JWK{b.PublicJWK()}}))

	_, err := keys.Get("a")
	require.ErrorIs(t, err, jwtx.ErrNoKey)
	_, err = keys.Get("b")
	require.NoError(t, err)

	require.Error(t, keys.ResetFromJWKS(jwtx.JWKS{Keys: []jwtx.JWK{{Kty: "RSA", Kid: "r"}}}))
}

func TestParseJWKS(t *testing.T) {
	set, err := jwtx.ParseJWKS([]byte(`{"keys":[{"kty":"OKP","crv":"Ed25519","kid":"x","x":"11qYAYKxCrfVS_7TyWQHOg7hcvPapiMlrwIaaPcHURo"}]}`))
	require.NoError(t, err)
	require.Len(t, set.Keys, 1)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.ResetFromJWKS(set))
	require.True(t, keys.IsReady())

	_, err = jwtx.ParseJWKS([]byte("{"))
	require.Error(t, err)
}
