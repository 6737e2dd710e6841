package kyc_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLivezEndpoint(t *testing.T) {
	svc, cleanup := setupKYCContainer(t, nil)
	defer cleanup()

	health, err := svc.customer().GetLiveness(t.Context())
	assertHealthy(t, health, err)
}

func TestReadyzEndpoint(t *testing.T) {
	svc, cleanup := setupKYCContainer(t, nil)
	defer cleanup()

	health, err := svc.customer().GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Keys)
}

func TestMetricsEndpoint(t *testing.T) {
	svc, cleanup := setupKYCContainer(t, nil)
	defer cleanup()

	// Generate at least one session start so the counter has a sample
	_, err := svc.operator(t, "org-metrics", "kyc:admin").StartSession(t.Context())
	require.NoError(t, err)

	resp, err := http.Get(svc.BaseURL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "verity_sessions_started_total")
}
