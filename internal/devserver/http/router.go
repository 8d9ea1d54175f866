// Package http wires the devserver's REST surface: the auth endpoints,
// the profile and patient resources, and the medical-record collection.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/amanihealth/amani/internal/devserver/service"
	"github.com/amanihealth/amani/pkg/httpx"
	"github.com/amanihealth/amani/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	TokenService   *service.TokenService
	AccountService *service.AccountService
	ProfileService *service.ProfileService
	RecordService  *service.RecordService
}

func NewRouter(buildVersion string, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerPatients()
	r.registerRecords()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AccountService: r.AccountService,
		TokenService:   r.TokenService,
		ProfileService: r.ProfileService,
	}

	// Credential endpoints get the strict limit to slow brute force.
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.AuthnMiddleware(r.TokenService),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &ProfileHandler{ProfileService: r.ProfileService}

	r.Mux.Handle("GET /users/me",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.AuthnMiddleware(r.TokenService),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PATCH /users/me",
		httpx.Chain(http.HandlerFunc(h.HandlePatch),
			httpx.AuthnMiddleware(r.TokenService),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerPatients() {
	h := &PatientHandler{ProfileService: r.ProfileService}

	r.Mux.Handle("GET /patients/me",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.AuthnMiddleware(r.TokenService),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PATCH /patients/me",
		httpx.Chain(http.HandlerFunc(h.HandlePatch),
			httpx.AuthnMiddleware(r.TokenService),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerRecords() {
	h := &RecordsHandler{RecordService: r.RecordService}

	secured := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.TokenService),
			httpx.RateLimitByIP(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /medical-records", secured(h.HandleList))
	r.Mux.Handle("POST /medical-records", secured(h.HandleCreate))
	r.Mux.Handle("PATCH /medical-records/{id}", secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /medical-records/{id}", secured(h.HandleDelete))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
