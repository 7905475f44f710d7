package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/civicpoint/taxassist-ai-platform/internal/http/handlers"
	httpmiddleware "github.com/civicpoint/taxassist-ai-platform/internal/http/middleware"
	"github.com/civicpoint/taxassist-ai-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	Sessions           *handlers.SessionHandler
	Dates              *handlers.DateHandler
	MetricsHandler     http.Handler
	AdminAuthSecret    string
	CORSAllowedOrigins []string
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Group(func(public chi.Router) {
		public.Get("/health", cfg.Sessions.HealthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		public.Route("/sessions", func(r chi.Router) {
			r.Post("/", cfg.Sessions.StartSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", cfg.Sessions.GetSession)
				r.Delete("/", cfg.Sessions.EndSession)
				r.Post("/messages", cfg.Sessions.ProcessMessage)
				r.Post("/escalate", cfg.Sessions.EscalateSession)
			})
		})

		if cfg.Dates != nil {
			public.Post("/dates/resolve", cfg.Dates.ResolveDate)
		}
	})

	r.Group(func(admin chi.Router) {
		admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
		admin.Get("/admin/sessions", cfg.Sessions.ListSessions)
	})

	return r
}
