package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/verity/internal/kyc/store"
	"github.com/aussiebroadwan/verity/pkg/httpx"
	"github.com/aussiebroadwan/verity/pkg/jwtx"
	"github.com/aussiebroadwan/verity/pkg/kycsdk"
)

// PingFunc probes an optional backing service.
type PingFunc func(ctx context.Context) error

// ReadinessChecks are the optional dependencies reported by /readyz. A nil
// check is left out of the response.
type ReadinessChecks struct {
	Lock  PingFunc
	Audit PingFunc
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, and status of the database, organization keys, lock backend and audit sink
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	kycsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	kycsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	keys *jwtx.KeySet,
	extra ReadinessChecks,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := &kycsdk.HealthChecks{
			Database: "ok",
			Keys:     "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK
		fail := func(field *string, msg string) {
			*field = "error: " + msg
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if err := st.Ping(ctx); err != nil {
			fail(&checks.Database, err.Error())
		}

		// Without organization keys no org call can be authenticated
		if !keys.IsReady() {
			fail(&checks.Keys, "no keys loaded")
		}

		if extra.Lock != nil {
			checks.Lock = "ok"
			if err := extra.Lock(ctx); err != nil {
				fail(&checks.Lock, err.Error())
			}
		}
		if extra.Audit != nil {
			checks.Audit = "ok"
			if err := extra.Audit(ctx); err != nil {
				fail(&checks.Audit, err.Error())
			}
		}

		httpx.WriteJSON(w, statusCode, kycsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
