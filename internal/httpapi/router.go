package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Handler        *Handler
	Logger         *slog.Logger
	MetricsHandler http.Handler
	CORSOrigins    []string
}

// NewRouter creates a chi router with every lead endpoint mounted under /api.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(CORS(cfg.CORSOrigins))
	}
	if cfg.Logger != nil {
		r.Use(RequestLogger(cfg.Logger))
	}

	h := cfg.Handler
	r.Get("/health", h.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/", h.Root)

		api.Route("/leads", func(leads chi.Router) {
			leads.Get("/", h.ListLeads)
			leads.Post("/upload", h.UploadLeads)
			leads.Post("/score", h.ScoreLead)
			leads.Post("/process", h.ProcessLeads)
		})

		api.Get("/logs", h.ListLogs)
		api.Delete("/logs", h.ClearLogs)

		api.Post("/status", h.CreateStatus)
		api.Get("/status", h.ListStatus)
	})

	return r
}
