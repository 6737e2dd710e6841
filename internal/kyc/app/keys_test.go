package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/verity/internal/kyc/provider"
	"github.com/aussiebroadwan/verity/internal/kyc/store/drivers/sqlite"
	"github.com/aussiebroadwan/verity/pkg/cryptox"
	"github.com/aussiebroadwan/verity/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() Config {
	return Config{
		OrgIssuer:      "verity-idp",
		OrgAudience:    []string{"verity"},
		ProviderMode:   "simulated",
		OTPMode:        "simulated",
		OTPTTL:         10 * time.Minute,
		OTPMaxAttempts: 5,
	}
}

func TestDevKeysRoundTrip(t *testing.T) {
	files, err := GenerateDevKeys(t.TempDir())
	require.NoError(t, err)
	priv := files.OrgPrivateKey

	cfg := testConfig()
	cfg.OrgPublicKeys = files.OrgJWKS

	keys, verifier, err := InitOrgKeys(cfg, discardLogger())
	require.NoError(t, err)
	require.True(t, keys.IsReady())

	token, err := IssueDevToken(cfg, priv, DevTokenRequest{OrgID: "org-1", Scopes: []string{"kyc:admin"}})
	require.NoError(t, err)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "org-1", claims.OrgID)
	require.Equal(t, "dev-operator", claims.Subject)
	require.True(t, claims.HasScope("kyc:admin"))

	t.Run("organization is required", func(t *testing.T) {
		_, err := IssueDevToken(cfg, priv, DevTokenRequest{})
		require.Error(t, err)
	})

	t.Run("wrong audience", func(t *testing.T) {
		other := cfg
		other.OrgAudience = []string{"someone-else"}
		token, err := IssueDevToken(other, priv, DevTokenRequest{OrgID: "org-1"})
		require.NoError(t, err)
		_, err = verifier.Verify(token)
		require.Error(t, err)
	})

	t.Run("provider signing key", func(t *testing.T) {
		pc := cfg
		pc.ProviderSigningKey = files.ProviderPrivateKey
		signer, err := InitProviderSigner(pc)
		require.NoError(t, err)

		pubPEM, err := os.ReadFile(files.ProviderPublicKey)
		require.NoError(t, err)
		pub, err := jwtx.ParseEd25519PublicKeyPEM(pubPEM)
		require.NoError(t, err)

		gatewayKeys := jwtx.NewKeySet()
		require.NoError(t, gatewayKeys.AddPublicKey(signer.KID(), pub))
		gateway := jwtx.NewVerifierEdDSA(gatewayKeys, serviceIssuer, []string{"gateway"})

		token, err := signer.Sign(jwtx.NewServiceClaims(serviceIssuer, "gateway", time.Now()))
		require.NoError(t, err)
		_, err = gateway.Verify(token)
		require.NoError(t, err)
	})
}

func TestInitOrgKeysPEM(t *testing.T) {
	sk, err := cryptox.NewSigningKey()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "idp.pem")
	require.NoError(t, os.WriteFile(path, sk.PublicPEM, 0o600))

	cfg := testConfig()
	cfg.OrgPublicKeys = path
	_, verifier, err := InitOrgKeys(cfg, discardLogger())
	require.NoError(t, err)

	signer, err := jwtx.NewSignerEdDSA("default", sk.PrivatePEM)
	require.NoError(t, err)
	token, err := signer.Sign(jwtx.NewOrgClaims("operator", "org-1", []string{"kyc:read"}, time.Hour, cfg.OrgIssuer, cfg.OrgAudience, time.Now()))
	require.NoError(t, err)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "org-1", claims.OrgID)
}

func TestInitOrgKeysOptional(t *testing.T) {
	keys, verifier, err := InitOrgKeys(testConfig(), discardLogger())
	require.NoError(t, err)
	require.False(t, keys.IsReady())
	require.NotNil(t, verifier)

	t.Run("unreadable file", func(t *testing.T) {
		cfg := testConfig()
		cfg.OrgPublicKeys = filepath.Join(t.TempDir(), "missing.json")
		_, _, err := InitOrgKeys(cfg, discardLogger())
		require.Error(t, err)
	})
}

func TestInitProviders(t *testing.T) {
	ctx := context.Background()
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	secret := []byte("0123456789abcdef0123456789abcdef")

	t.Run("simulated otp accepts the fixed code", func(t *testing.T) {
		set, err := InitProviders(testConfig(), st, secret, nil, discardLogger())
		require.NoError(t, err)

		_, err = set.OTP.SendOTP(ctx, "+61412345678")
		require.NoError(t, err)
		res, err := set.OTP.VerifyOTP(ctx, "+61412345678", provider.SimulatedOTPCode)
		require.NoError(t, err)
		require.True(t, res.Verified)
	})

	t.Run("totp mode files challenges in the store", func(t *testing.T) {
		cfg := testConfig()
		cfg.OTPMode = "totp"
		set, err := InitProviders(cfg, st, secret, nil, discardLogger())
		require.NoError(t, err)

		res, err := set.OTP.SendOTP(ctx, "+61499999999")
		require.NoError(t, err)
		require.WithinDuration(t, time.Now().Add(cfg.OTPTTL), res.ExpiresAt, 5*time.Second)

		challenge, err := st.OTPChallenges().GetOTPChallenge(ctx, "+61499999999")
		require.NoError(t, err)
		require.Zero(t, challenge.Attempts)
	})

	t.Run("user agent drives the device score", func(t *testing.T) {
		set, err := InitProviders(testConfig(), st, secret, nil, discardLogger())
		require.NoError(t, err)

		score, ok, err := set.Fraud.DeviceScore(ctx, provider.DeviceContext{
			UserAgent:      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) HeadlessChrome/120.0.0.0 Safari/537.36",
			AcceptLanguage: "en-AU",
		})
		require.NoError(t, err)
		require.True(t, ok)
		require.Less(t, score, 0.5)
	})

	t.Run("remote mode needs a signing key", func(t *testing.T) {
		cfg := testConfig()
		cfg.ProviderMode = "remote"
		cfg.ProviderURL = "http://gateway.invalid"
		cfg.ProviderSigningKey = filepath.Join(t.TempDir(), "missing.pem")
		_, err := InitProviders(cfg, st, secret, nil, discardLogger())
		require.Error(t, err)
	})
}
