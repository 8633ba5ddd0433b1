package http

import (
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/aussiebroadwan/barangay/api/portal" // Swagger docs
	"github.com/aussiebroadwan/barangay/internal/portal/domain"
	"github.com/aussiebroadwan/barangay/internal/portal/metrics"
	"github.com/aussiebroadwan/barangay/internal/portal/service"
	"github.com/aussiebroadwan/barangay/internal/portal/store"
	"github.com/aussiebroadwan/barangay/pkg/httpx"
	"github.com/aussiebroadwan/barangay/pkg/jwtx"
	"github.com/aussiebroadwan/barangay/pkg/slogx"
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
	metrics      *metrics.Metrics

	store             store.Store
	ResidentService   *service.ResidentService
	FamilyHeadService *service.FamilyHeadService
	AccountService    *service.AccountService
	MFAService        *service.MFAService
	BootstrapService  *service.BootstrapService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		metrics:      m,
		logger:       logger,
	}

	// The metrics middleware must sit directly on the mux to see the
	// matched pattern.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		metricsMiddleware(r.metrics),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerResidents()
	r.registerFamilyHeads()
	r.registerAuth()
	r.registerMFA()
	r.registerUsers()
	r.registerBootstrap()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Barangay Resident Portal API
//	@version		0.1.0
//	@description	Resident registry for a barangay office: resident records, family heads, QR identity cards and the accounts that manage them.
//	@description
//	@description				Access tokens are EdDSA signed JWTs and can be verified using the JWKS endpoint.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/barangay
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
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// limit wraps an httpx rate limiter so rejections are counted under profile.
func (r *Router) limit(profile string, cfg httpx.RateLimitConfig, byUser bool) httpx.Middleware {
	hook := httpx.WithRejectHook(func(*http.Request) { r.metrics.IncRateLimited(profile) })
	if byUser {
		return httpx.RateLimitByUser(cfg, hook)
	}
	return httpx.RateLimitByIP(cfg, hook)
}

func (r *Router) authed(h http.Handler, mws ...httpx.Middleware) http.Handler {
	return httpx.Chain(h, append([]httpx.Middleware{httpx.AuthnMiddleware(r.verifier)}, mws...)...)
}

func (r *Router) registerResidents() {
	h := &ResidentsHandler{ResidentService: r.ResidentService}
	lenient := r.limit("lenient", httpx.LenientLimit, true)

	// Per-record access is decided by the resident gate, not by role.
	r.Mux.Handle("GET /v1/residents", r.authed(http.HandlerFunc(h.HandleList), lenient))
	r.Mux.Handle("POST /v1/residents", r.authed(http.HandlerFunc(h.HandleCreate), lenient))
	r.Mux.Handle("GET /v1/residents/{id}", r.authed(http.HandlerFunc(h.HandleGet), lenient))
	r.Mux.Handle("PUT /v1/residents/{id}", r.authed(http.HandlerFunc(h.HandleUpdate), lenient))
	r.Mux.Handle("DELETE /v1/residents/{id}", r.authed(http.HandlerFunc(h.HandleDelete), lenient))
	r.Mux.Handle("GET /v1/residents/{id}/qrcode", r.authed(http.HandlerFunc(h.HandleQRCode), lenient))
}

func (r *Router) registerFamilyHeads() {
	h := &FamilyHeadsHandler{FamilyHeadService: r.FamilyHeadService}
	admin := httpx.RequireRole(string(domain.RoleAdmin))
	moderate := r.limit("moderate", httpx.ModerateLimit, true)

	r.Mux.Handle("GET /v1/family-heads", r.authed(http.HandlerFunc(h.HandleList), admin, moderate))
	r.Mux.Handle("POST /v1/family-heads", r.authed(http.HandlerFunc(h.HandleCreate), admin, moderate))
	r.Mux.Handle("GET /v1/family-heads/{id}", r.authed(http.HandlerFunc(h.HandleGet), admin, moderate))
	r.Mux.Handle("DELETE /v1/family-heads/{id}", r.authed(http.HandlerFunc(h.HandleDelete), admin, moderate))
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AccountService: r.AccountService}

	// POST /login - strict rate limit by IP (credential guessing)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			r.limit("strict", httpx.StrictLimit, false),
		),
	)

	r.Mux.Handle("GET /v1/auth/me",
		r.authed(http.HandlerFunc(h.HandleMe), r.limit("lenient", httpx.LenientLimit, true)))
	r.Mux.Handle("POST /v1/auth/change-password",
		r.authed(http.HandlerFunc(h.HandleChangePassword), r.limit("moderate", httpx.ModerateLimit, true)))
}

func (r *Router) registerMFA() {
	h := &MFAHandler{MFAService: r.MFAService}
	moderate := r.limit("moderate", httpx.ModerateLimit, true)

	r.Mux.Handle("POST /v1/auth/mfa/totp/enroll", r.authed(http.HandlerFunc(h.HandleEnroll), moderate))

	// POST /verify - strict rate limit by user (TOTP brute force)
	r.Mux.Handle("POST /v1/auth/mfa/totp/verify",
		r.authed(http.HandlerFunc(h.HandleVerify), r.limit("strict", httpx.StrictLimit, true)))

	r.Mux.Handle("DELETE /v1/auth/mfa/totp", r.authed(http.HandlerFunc(h.HandleDisable), moderate))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{AccountService: r.AccountService}
	admin := httpx.RequireRole(string(domain.RoleAdmin))
	moderate := r.limit("moderate", httpx.ModerateLimit, true)

	r.Mux.Handle("GET /v1/users", r.authed(http.HandlerFunc(h.HandleList), admin, moderate))
	r.Mux.Handle("POST /v1/users", r.authed(http.HandlerFunc(h.HandleCreate), admin, moderate))
	r.Mux.Handle("DELETE /v1/users/{id}", r.authed(http.HandlerFunc(h.HandleDelete), admin, moderate))
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - very strict rate limit by IP (one-time setup endpoint)
	h := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(h,
			r.limit("strict", httpx.StrictLimit, false),
		),
	)
}

func (r *Router) registerSystem() {
	public := r.limit("public", httpx.PublicLimit, false)

	// Health check endpoints - monitoring systems may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion), public))
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys), public))

	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys), public))

	r.Mux.Handle("GET /metrics", r.metrics.Handler())
}
