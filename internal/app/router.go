package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/avecor-crm/avecor-crm/internal/auth"
	"github.com/avecor-crm/avecor-crm/internal/customers"
	"github.com/avecor-crm/avecor-crm/internal/dashboard"
	"github.com/avecor-crm/avecor-crm/internal/observability"
	"github.com/avecor-crm/avecor-crm/internal/reports"
	"github.com/avecor-crm/avecor-crm/internal/users"
	"github.com/avecor-crm/avecor-crm/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Metrics          *observability.Metrics
	AuthHandler      *auth.Handler
	AuthMiddleware   *auth.Middleware
	CustomerHandler  *customers.Handler
	UserHandler      *users.Handler
	DashboardHandler *dashboard.Handler
	ReportHandler    *reports.Handler
	JobsHandler      *jobs.Handler
}

// NewRouter constructs the chi.Router with Avecor defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	if params.Metrics != nil {
		r.Use(params.Metrics.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireAuth)

		r.Route("/clientes", params.CustomerHandler.MountRoutes)
		r.Route("/dashboard", params.DashboardHandler.MountRoutes)
		r.Route("/reportes", params.ReportHandler.MountRoutes)

		r.Route("/usuarios", func(r chi.Router) {
			r.Use(params.AuthMiddleware.RequireAdmin)
			params.UserHandler.MountRoutes(r)
		})

		if params.JobsHandler != nil {
			r.Route("/jobs", func(r chi.Router) {
				r.Use(params.AuthMiddleware.RequireAdmin)
				params.JobsHandler.MountRoutes(r)
			})
		}
	})

	return r
}
