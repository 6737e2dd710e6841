package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/verity/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestClientIP(t *testing.T) {
	t.Run("socket peer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		require.Equal(t, "192.168.1.1", httpx.ClientIP(req))
	})

	t.Run("first forwarded hop", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")
		require.Equal(t, "203.0.113.1", httpx.ClientIP(req))
	})

	t.Run("real ip header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Real-IP", " 198.51.100.7 ")
		require.Equal(t, "198.51.100.7", httpx.ClientIP(req))
	})
}

func serve(ctx context.Context, h http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequestWithContext(ctx, http.MethodGet, "/", nil)
	req.RemoteAddr = ip + ":12345"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitByIP(t *testing.T) {
	limit := httpx.Limit{Requests: 3, Window: time.Minute, Burst: 3}
	limited := httpx.RateLimitByIP(limit)(okHandler())

	for i := range 3 {
		rec := serve(context.Background(), limited, "192.168.1.1")
		require.Equal(t, http.StatusOK, rec.Code, "request %d should succeed", i+1)
	}

	rec := serve(context.Background(), limited, "192.168.1.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))
	require.Contains(t, rec.Body.String(), "rate_limit_exceeded")

	t.Run("other addresses keep their own bucket", func(t *testing.T) {
		require.Equal(t, http.StatusOK, serve(context.Background(), limited, "10.0.0.2").Code)
	})
}

func TestRateLimitByOrg(t *testing.T) {
	limit := httpx.Limit{Requests: 1, Window: time.Minute, Burst: 1}
	limited := httpx.RateLimitByOrg(limit)(okHandler())

	orgCtx := func(id string) context.Context {
		return context.WithValue(context.Background(), httpx.CtxKeyOrgID, id)
	}

	t.Run("one bucket per organization", func(t *testing.T) {
		require.Equal(t, http.StatusOK, serve(orgCtx("org_1"), limited, "10.0.0.1").Code)
		require.Equal(t, http.StatusTooManyRequests, serve(orgCtx("org_1"), limited, "10.0.0.9").Code)
		require.Equal(t, http.StatusOK, serve(orgCtx("org_2"), limited, "10.0.0.1").Code)
	})

	t.Run("falls back to the client address", func(t *testing.T) {
		require.Equal(t, http.StatusOK, serve(context.Background(), limited, "10.0.0.50").Code)
		require.Equal(t, http.StatusTooManyRequests, serve(context.Background(), limited, "10.0.0.50").Code)
	})
}

func TestRateLimitByIPAndPathValue(t *testing.T) {
	limit := httpx.Limit{Requests: 2, Window: time.Minute, Burst: 2}

	mux := http.NewServeMux()
	mux.Handle("POST /v1/sessions/{id}/otp/send",
		httpx.Chain(okHandler(), httpx.RateLimitByIPAndPathValue(limit, "id")))

	send := func(session string) int {
		req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+session+"/otp/send", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, send("ses_a"))
	require.Equal(t, http.StatusOK, send("ses_a"))
	require.Equal(t, http.StatusTooManyRequests, send("ses_a"))

	// Another session from the same device has its own bucket
	require.Equal(t, http.StatusOK, send("ses_b"))
}

func TestRateLimitProfiles(t *testing.T) {
	require.Less(t, httpx.StrictLimit.Requests, httpx.ModerateLimit.Requests)
	require.Less(t, httpx.ModerateLimit.Requests, httpx.LenientLimit.Requests)
	require.Less(t, httpx.LenientLimit.Requests, httpx.PublicLimit.Requests)
}

func TestLimitFromEnv(t *testing.T) {
	t.Setenv("RATELIMIT_TESTING_REQUESTS", "42")
	t.Setenv("RATELIMIT_TESTING_WINDOW_SEC", "7")
	t.Setenv("RATELIMIT_TESTING_BURST", "not-a-number")

	limit := httpx.LimitFromEnv("TESTING", httpx.Limit{Requests: 1, Window: time.Minute, Burst: 3})
	require.Equal(t, 42, limit.Requests)
	require.Equal(t, 7*time.Second, limit.Window)
	require.Equal(t, 3, limit.Burst)

	t.Run("non positive values are ignored", func(t *testing.T) {
		t.Setenv("RATELIMIT_ZERO_REQUESTS", "0")
		limit := httpx.LimitFromEnv("ZERO", httpx.Limit{Requests: 9, Window: time.Minute, Burst: 9})
		require.Equal(t, 9, limit.Requests)
	})
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler(), mw("outer"), mw("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner"}, order)
}
