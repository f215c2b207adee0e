package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/parleyhq/parley/internal/accounts"
	"github.com/parleyhq/parley/internal/auth"
	"github.com/parleyhq/parley/internal/observability"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	AuthHandler     *auth.Handler
	AccountsHandler *accounts.Handler
	Gate            auth.Middleware
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with Parley defaults. Register and
// login stay public; everything else under /api/user requires a session.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"welcome to parley"}`))
	})

	r.Route("/api/user", func(r chi.Router) {
		params.AuthHandler.MountPublic(r)

		r.Group(func(r chi.Router) {
			r.Use(params.Gate.Require)
			params.AuthHandler.MountProtected(r)
			params.AccountsHandler.MountRoutes(r)
		})
	})

	return r
}
