package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/verity/internal/kyc/service"
	"github.com/aussiebroadwan/verity/internal/kyc/store"
	"github.com/aussiebroadwan/verity/pkg/httpx"
	"github.com/aussiebroadwan/verity/pkg/jwtx"
	"github.com/aussiebroadwan/verity/pkg/slogx"

	_ "github.com/aussiebroadwan/verity/api/kyc" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Organization token scopes.
const (
	ScopeRead   = "kyc:read"
	ScopeReview = "kyc:review"
	ScopeAdmin  = "kyc:admin"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store             store.Store
	SessionService    *service.SessionService
	InvitationService *service.InvitationService
	PublicBaseURL     string
	MetricsHandler    http.Handler // Optional: /metrics is not served when nil
	ReadinessChecks   ReadinessChecks
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerInvitations()
	r.registerPublicInvite()
	r.registerSessions()
	r.registerSteps()
	r.registerReview()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Verity KYC Service API
//	@version		0.1.0
//	@description	Guided KYC sessions, shareable invitation links and risk based decisions.
//	@description
//	@description				Customer endpoints are addressed by session id. Organization endpoints need an EdDSA signed bearer token carrying an org_id claim.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/verity
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Organization JWT. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// org wraps h with bearer verification, a scope check and a per-org limit.
func (r *Router) org(h http.Handler, limit httpx.Limit, scopes ...string) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(scopes...),
		httpx.RateLimitByOrg(limit),
	)
}

func (r *Router) registerInvitations() {
	h := &InvitationsHandler{
		InvitationService: r.InvitationService,
		PublicBaseURL:     r.PublicBaseURL,
	}

	r.Mux.Handle("POST /v1/invitations",
		r.org(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit, ScopeAdmin))
	r.Mux.Handle("GET /v1/invitations",
		r.org(http.HandlerFunc(h.HandleList), httpx.LenientLimit, ScopeRead, ScopeAdmin))
	r.Mux.Handle("GET /v1/invitations/{id}",
		r.org(http.HandlerFunc(h.HandleGet), httpx.LenientLimit, ScopeRead, ScopeAdmin))
	r.Mux.Handle("POST /v1/invitations/{id}/revoke",
		r.org(http.HandlerFunc(h.HandleRevoke), httpx.ModerateLimit, ScopeAdmin))
}

func (r *Router) registerPublicInvite() {
	h := &InviteHandler{
		InvitationService: r.InvitationService,
		SessionService:    r.SessionService,
	}

	// Lookups are cheap but codes must not be enumerable at speed
	r.Mux.Handle("GET /v1/invite/{code}",
		httpx.Chain(http.HandlerFunc(h.HandleResolve),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	// Each start consumes a use of the link
	r.Mux.Handle("POST /v1/invite/{code}/sessions",
		httpx.Chain(http.HandlerFunc(h.HandleStart),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSessions() {
	h := &SessionsHandler{SessionService: r.SessionService}

	r.Mux.Handle("POST /v1/sessions",
		r.org(http.HandlerFunc(h.HandleStart), httpx.ModerateLimit, ScopeAdmin))
	r.Mux.Handle("GET /v1/organizations/sessions",
		r.org(http.HandlerFunc(h.HandleList), httpx.LenientLimit, ScopeRead, ScopeReview, ScopeAdmin))

	r.Mux.Handle("GET /v1/sessions/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /v1/sessions/{id}/retake",
		httpx.Chain(http.HandlerFunc(h.HandleRetake),
			httpx.RateLimitByIPAndPathValue(httpx.ModerateLimit, "id"),
		),
	)
	r.Mux.Handle("POST /v1/sessions/{id}/risk",
		httpx.Chain(http.HandlerFunc(h.HandleRisk),
			httpx.RateLimitByIPAndPathValue(httpx.ModerateLimit, "id"),
		),
	)
}

func (r *Router) registerSteps() {
	h := &StepsHandler{SessionService: r.SessionService}

	r.Mux.Handle("POST /v1/sessions/{id}/steps/{step}",
		httpx.Chain(http.HandlerFunc(h.HandleStep),
			httpx.RateLimitByIPAndPathValue(httpx.ModerateLimit, "id"),
		),
	)

	// Every send is an SMS, so the limit is per device and session
	r.Mux.Handle("POST /v1/sessions/{id}/otp/send",
		httpx.Chain(http.HandlerFunc(h.HandleSendOTP),
			httpx.RateLimitByIPAndPathValue(httpx.StrictLimit, "id"),
		),
	)
}

func (r *Router) registerReview() {
	h := &ReviewHandler{SessionService: r.SessionService}

	r.Mux.Handle("POST /v1/sessions/{id}/decision",
		r.org(http.HandlerFunc(h.HandleDecision), httpx.ModerateLimit, ScopeReview, ScopeAdmin))
	r.Mux.Handle("GET /v1/sessions/{id}/report",
		r.org(http.HandlerFunc(h.HandleReport), httpx.LenientLimit, ScopeRead, ScopeReview, ScopeAdmin))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys, r.ReadinessChecks),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	if r.MetricsHandler != nil {
		r.Mux.Handle("GET /metrics", r.MetricsHandler)
	}
}
