package kyc_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/verity/pkg/cryptox"
	"github.com/aussiebroadwan/verity/pkg/jwtx"
	"github.com/aussiebroadwan/verity/pkg/kycsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Container setup, token minting and assertions shared by the KYC service
 * end-to-end tests. Tests drive the service only through kycsdk.
 */

const (
	testImageName = "verity-kyc-test:latest"

	orgIssuer   = "e2e-idp"
	orgAudience = "verity"
	orgKID      = "e2e-key-1"
	otpCode     = "123456"
)

// TestMain builds the Docker image once before all tests and removes it
// afterwards.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building KYC Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up KYC Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/kyc/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might not exist
}

// kycService is a running container plus a signer trusted by it.
type kycService struct {
	BaseURL string
	signer  *jwtx.EdDSASigner
}

// setupKYCContainer starts the service with a freshly generated organization
// key set mounted as KYC_ORG_PUBLIC_KEYS. extraEnv overrides the defaults.
func setupKYCContainer(t *testing.T, extraEnv map[string]string) (*kycService, func()) {
	t.Helper()
	ctx := context.Background()

	sk, err := cryptox.NewSigningKey()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA(orgKID, sk.PrivatePEM)
	require.NoError(t, err)

	jwks, err := json.Marshal(jwtx.JWKS{Keys: []jwtx.JWK{signer.PublicJWK()}})
	require.NoError(t, err)
	jwksPath := filepath.Join(t.TempDir(), "jwks.json")
	require.NoError(t, os.WriteFile(jwksPath, jwks, 0o644))

	env := map[string]string{
		"KYC_ORG_PUBLIC_KEYS": "/etc/verity/jwks.json",
		"KYC_ORG_ISSUER":      orgIssuer,
		"KYC_ORG_AUDIENCE":    orgAudience,
		"KYC_PUBLIC_BASE_URL": "https://kyc.example.com",
		"KYC_PROVIDER_MODE":   "simulated",
		"KYC_OTP_MODE":        "simulated",
		"ENV":                 "test",
		"LOG_LEVEL":           "info",
		"LOG_FORMAT":          "json",
		// Tests make many rapid requests from one address
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		Files: []testcontainers.ContainerFile{{
			HostFilePath:      jwksPath,
			ContainerFilePath: "/etc/verity/jwks.json",
			FileMode:          0o644,
		}},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	svc := &kycService{
		BaseURL: fmt.Sprintf("http://%s:%s", host, mappedPort.Port()),
		signer:  signer,
	}

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return svc, cleanup
}

// customer returns an unauthenticated client, as used by the KYC UI.
func (s *kycService) customer() *kycsdk.SDKClient {
	return kycsdk.NewSDKClient(s.BaseURL)
}

// operator returns a client acting for orgID with scopes.
func (s *kycService) operator(t *testing.T, orgID string, scopes ...string) *kycsdk.SDKClient {
	t.Helper()
	claims := jwtx.NewOrgClaims("operator@"+orgID, orgID, scopes, time.Hour, orgIssuer, []string{orgAudience}, time.Now())
	token, err := s.signer.Sign(claims)
	require.NoError(t, err)
	return kycsdk.NewSDKClient(s.BaseURL).WithToken(token)
}

// completeCustomerSteps drives a session from welcome to the risk summary.
func completeCustomerSteps(t *testing.T, c *kycsdk.SDKClient, sessionID string) *kycsdk.Session {
	t.Helper()
	ctx := t.Context()

	_, err := c.SubmitPreferences(ctx, sessionID, kycsdk.PreferencesRequest{Language: "en-IN", VoiceGuidance: true})
	require.NoError(t, err)

	_, err = c.SubmitUserInfo(ctx, sessionID, kycsdk.UserInfoRequest{
		FullName:    "Priya Sharma",
		DateOfBirth: "1991-04-12",
		Phone:       "98765 43210",
		Email:       "priya@example.com",
		Address:     "12 MG Road Bengaluru",
	})
	require.NoError(t, err)

	sent, err := c.SendOTP(ctx, sessionID)
	require.NoError(t, err)
	require.NotEmpty(t, sent.Destination)

	_, err = c.VerifyOTP(ctx, sessionID, otpCode)
	require.NoError(t, err)

	_, err = c.SelectDocument(ctx, sessionID, kycsdk.DocumentPassport)
	require.NoError(t, err)

	_, err = c.CaptureDocument(ctx, sessionID, pngImage(t, 64, 40))
	require.NoError(t, err)

	_, err = c.ReviewDocument(ctx, sessionID, kycsdk.DocumentReviewRequest{Confirmed: true})
	require.NoError(t, err)

	_, err = c.CaptureSelfie(ctx, sessionID, pngImage(t, 48, 48))
	require.NoError(t, err)

	_, err = c.CheckLiveness(ctx, sessionID)
	require.NoError(t, err)

	sess, err := c.SubmitLocation(ctx, sessionID, 12.9716, 77.5946)
	require.NoError(t, err)
	require.Equal(t, 9, sess.CurrentStep)
	return sess
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func assertHealthy(t *testing.T, health *kycsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}

func assertAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	var apiErr *kycsdk.APIError
	require.True(t, errors.As(err, &apiErr), "expected *kycsdk.APIError, got %T: %v", err, err)
	require.Equal(t, status, apiErr.StatusCode, "unexpected status: %v", err)
	require.Equal(t, code, apiErr.Code)
}
