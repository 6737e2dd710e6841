package httpx

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/verity/pkg/slogx"
	"golang.org/x/time/rate"
)

// Limit is a token bucket: Requests per Window, absorbing Burst at once.
type Limit struct {
	Requests int
	Window   time.Duration
	Burst    int
}

func (l Limit) perSecond() rate.Limit {
	return rate.Limit(float64(l.Requests) / l.Window.Seconds())
}

// refill is how long an untouched bucket takes to fill up again.
func (l Limit) refill() time.Duration {
	return time.Duration(float64(l.Burst) / float64(l.perSecond()) * float64(time.Second))
}

// Route profiles. Each can be tuned with RATELIMIT_<NAME>_REQUESTS,
// RATELIMIT_<NAME>_WINDOW_SEC and RATELIMIT_<NAME>_BURST.
var (
	// StrictLimit guards OTP delivery and verification and invitation
	// consumption.
	StrictLimit = LimitFromEnv("STRICT", Limit{Requests: 5, Window: time.Minute, Burst: 5})

	// ModerateLimit guards organization writes and the provider backed
	// capture steps.
	ModerateLimit = LimitFromEnv("MODERATE", Limit{Requests: 20, Window: time.Minute, Burst: 20})

	// LenientLimit guards reads, session polling and health checks.
	LenientLimit = LimitFromEnv("LENIENT", Limit{Requests: 100, Window: time.Minute, Burst: 100})

	// PublicLimit guards the unauthenticated invitation lookup.
	PublicLimit = LimitFromEnv("PUBLIC", Limit{Requests: 1000, Window: time.Minute, Burst: 1000})
)

// LimitFromEnv overrides the fields of def that are set to a positive
// integer in the RATELIMIT_<name>_* variables.
func LimitFromEnv(name string, def Limit) Limit {
	prefix := "RATELIMIT_" + name + "_"
	if n, ok := positiveEnv(prefix + "REQUESTS"); ok {
		def.Requests = n
	}
	if n, ok := positiveEnv(prefix + "WINDOW_SEC"); ok {
		def.Window = time.Duration(n) * time.Second
	}
	if n, ok := positiveEnv(prefix + "BURST"); ok {
		def.Burst = n
	}
	return def
}

func positiveEnv(key string) (int, bool) {
	n, err := strconv.Atoi(os.Getenv(key))
	return n, err == nil && n > 0
}

// ClientIP is the caller's address: the first X-Forwarded-For hop, then
// X-Real-IP, then the socket peer.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// RateLimitByIP gives every client address its own bucket.
func RateLimitByIP(limit Limit) Middleware {
	return rateLimit(limit, func(r *http.Request) string {
		return "ip:" + ClientIP(r)
	})
}

// RateLimitByOrg gives every authenticated organization its own bucket.
// Requests without an organization on the context share the caller's IP
// bucket instead.
func RateLimitByOrg(limit Limit) Middleware {
	return rateLimit(limit, func(r *http.Request) string {
		if orgID, ok := OrgIDFromContext(r.Context()); ok && orgID != "" {
			return "org:" + orgID
		}
		return "ip:" + ClientIP(r)
	})
}

// RateLimitByIPAndPathValue buckets by client address and a ServeMux
// wildcard, so one device cannot spray OTP codes at a single session while
// other sessions stay unaffected.
func RateLimitByIPAndPathValue(limit Limit, name string) Middleware {
	return rateLimit(limit, func(r *http.Request) string {
		return "ip:" + ClientIP(r) + "|" + name + ":" + r.PathValue(name)
	})
}

func rateLimit(limit Limit, key func(*http.Request) string) Middleware {
	b := newBuckets(limit)
	retryLimit := strconv.Itoa(limit.Requests)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			wait, ok := b.take(k, time.Now())
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			retryAfter := max(int(wait.Round(time.Second)/time.Second), 1)
			slogx.FromContext(r.Context()).Warn("rate limit exceeded",
				"key", k,
				"path", r.URL.Path,
				"retry_after", retryAfter,
			)

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", retryLimit)
			w.Header().Set("X-RateLimit-Window", limit.Window.String())
			WriteJSON(w, http.StatusTooManyRequests, map[string]string{
				"error":             "rate_limit_exceeded",
				"error_description": "Too many requests. Please try again later.",
			})
		})
	}
}

// sweepEvery bounds how often idle buckets are dropped.
const sweepEvery = 5 * time.Minute

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// buckets holds one limiter per key. Keys untouched for longer than a full
// refill are forgotten, since a fresh limiter behaves the same.
type buckets struct {
	limit Limit
	idle  time.Duration

	mu    sync.Mutex
	byKey map[string]*bucket
	swept time.Time
}

func newBuckets(limit Limit) *buckets {
	return &buckets{
		limit: limit,
		idle:  limit.refill(),
		byKey: make(map[string]*bucket),
		swept: time.Now(),
	}
}

// take spends one token for key. When the bucket is empty it reports how
// long until the next token and spends nothing.
func (b *buckets) take(key string, now time.Time) (time.Duration, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if now.Sub(b.swept) >= sweepEvery {
		b.sweep(now)
	}

	bk, ok := b.byKey[key]
	if !ok {
		bk = &bucket{lim: rate.NewLimiter(b.limit.perSecond(), b.limit.Burst)}
		b.byKey[key] = bk
	}
	bk.lastSeen = now

	res := bk.lim.ReserveN(now, 1)
	if !res.OK() {
		return b.limit.Window, false
	}
	if wait := res.DelayFrom(now); wait > 0 {
		res.CancelAt(now)
		return wait, false
	}
	return 0, true
}

func (b *buckets) sweep(now time.Time) {
	for key, bk := range b.byKey {
		if now.Sub(bk.lastSeen) > b.idle {
			delete(b.byKey, key)
		}
	}
	b.swept = now
}
