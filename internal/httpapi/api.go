// Package httpapi is the HTTP boundary: routing, middleware, request
// decoding and the localized response envelope.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/esslidev/sga-advanced-system/internal/audit"
	"github.com/esslidev/sga-advanced-system/internal/auth"
	"github.com/esslidev/sga-advanced-system/internal/obs"
	"github.com/esslidev/sga-advanced-system/internal/token"
	"github.com/esslidev/sga-advanced-system/internal/visit"
	"github.com/esslidev/sga-advanced-system/internal/visitor"
)

// ReadyProbe reports readiness, pinging the database when one is wired.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Options wires the API's collaborators.
type Options struct {
	Auth     *auth.Service
	Visitors *visitor.Service
	Visits   *visit.Service
	Logs     audit.Store
	Codec    *token.Codec

	Ready        ReadyProbe
	Version      string
	APIKey       string
	FrontendPort string

	RateLimitPerSec float64
	RateLimitBurst  int
}

// API is the HTTP layer.
type API struct {
	mux      *http.ServeMux
	auth     *auth.Service
	visitors *visitor.Service
	visits   *visit.Service
	logs     audit.Store
	codec    *token.Codec
	validate *validator.Validate

	ready        ReadyProbe
	version      string
	apiKey       string
	frontendPort string

	ratePerSec float64
	rateBurst  int
}

func New(opts Options) *API {
	a := &API{
		mux:          http.NewServeMux(),
		auth:         opts.Auth,
		visitors:     opts.Visitors,
		visits:       opts.Visits,
		logs:         opts.Logs,
		codec:        opts.Codec,
		validate:     newValidator(),
		ready:        opts.Ready,
		version:      opts.Version,
		apiKey:       opts.APIKey,
		frontendPort: opts.FrontendPort,
		ratePerSec:   opts.RateLimitPerSec,
		rateBurst:    opts.RateLimitBurst,
	}

	a.mux.HandleFunc("/healthz", a.handleHealthz)
	a.mux.HandleFunc("/readyz", a.handleReadyz)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/api/auth/sign-up", a.handleSignUp)
	a.mux.HandleFunc("/api/auth/sign-in", a.handleSignIn)
	a.mux.HandleFunc("/api/auth/sign-out", a.withAuth(a.handleSignOut))
	a.mux.HandleFunc("/api/auth/access/renew", a.handleRenewAccess)

	a.mux.HandleFunc("/api/user/get-user", a.withAuth(a.handleGetUser))
	a.mux.HandleFunc("/api/user/get-users", a.withAuth(a.withAdmin(a.handleGetUsers)))
	a.mux.HandleFunc("/api/user/delete-user", a.withAuth(a.withAdmin(a.handleDeleteUser)))

	a.mux.HandleFunc("/api/visitor/get-visitor", a.withAuth(a.handleGetVisitor))
	a.mux.HandleFunc("/api/visitor/get-visitors", a.withAuth(a.handleGetVisitors))
	a.mux.HandleFunc("/api/visitor/add-visitor", a.withAuth(a.handleAddVisitor))
	a.mux.HandleFunc("/api/visitor/update-visitor", a.withAuth(a.handleUpdateVisitor))
	a.mux.HandleFunc("/api/visitor/delete-visitor", a.withAuth(a.handleDeleteVisitor))

	a.mux.HandleFunc("/api/visit/get-visits", a.withAuth(a.handleGetVisits))
	a.mux.HandleFunc("/api/visit/add-visit", a.withAuth(a.handleAddVisit))
	a.mux.HandleFunc("/api/visit/update-visit", a.withAuth(a.handleUpdateVisit))
	a.mux.HandleFunc("/api/visit/delete-visit", a.withAuth(a.handleDeleteVisit))

	a.mux.HandleFunc("/api/logs/get-logs", a.withAuth(a.withAdmin(a.handleGetLogs)))

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped handler for the server.
func (a *API) Handler() http.Handler {
	h := http.Handler(a.mux)
	h = a.withAPIKey(h)
	if a.ratePerSec > 0 && a.rateBurst > 0 {
		h = RateLimit(h, a.ratePerSec, a.rateBurst)
	}
	h = MaxBodyBytes(h, 1<<20)
	h = CORS(h, a.frontendPort)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("cin", func(fl validator.FieldLevel) bool {
		return auth.IsCINValid(fl.Field().String())
	})
	return v
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "sga-api",
		"version": a.version,
	})
}

func (a *API) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := a.ready.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}
