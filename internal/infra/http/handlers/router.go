package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/xavierca1/painel-leads/internal/infra/http/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string
	Limiter        *RateLimiter
	Log            zerolog.Logger
}

// NewRouter liga as rotas do painel. Rotas que alteram dados (e o refresh manual)
// passam pelo limitador por IP.
func NewRouter(cfg RouterConfig, dash *DashboardHandler, leads *LeadHandler, prompts *PromptHandler, health *HealthHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(cfg.Log))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}))

	limited := func(h http.HandlerFunc) http.Handler {
		if cfg.Limiter == nil {
			return h
		}
		return cfg.Limiter.Handler(h)
	}

	r.Get("/health", health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/status", dash.Status)
	r.Method(http.MethodPost, "/refresh", limited(dash.Refresh))
	r.Get("/metrics/overview", dash.Overview)
	r.Get("/metrics/agenda", dash.Agenda)
	r.Get("/analytics/channels", dash.Channels)
	r.Get("/analytics/contacts", dash.Contacts)
	r.Get("/analytics/funnel", dash.Funnel)
	r.Get("/analytics/daily", dash.Daily)

	r.Route("/leads", func(r chi.Router) {
		r.Get("/", leads.List)
		r.Get("/scheduled", leads.Scheduled)
		r.Get("/calendar", leads.Calendar)
		r.Method(http.MethodPost, "/delete", limited(leads.DeleteBulk))
		r.Method(http.MethodDelete, "/", limited(leads.DeleteAll))
		r.Method(http.MethodPatch, "/{id}", limited(leads.Update))
		r.Method(http.MethodDelete, "/{id}", limited(leads.DeleteOne))
	})

	r.Route("/prompts", func(r chi.Router) {
		r.Get("/", prompts.List)
		r.Get("/metrics", prompts.Metrics)
		r.Method(http.MethodPost, "/", limited(prompts.Create))
		r.Method(http.MethodPut, "/{id}", limited(prompts.Update))
		r.Method(http.MethodDelete, "/{id}", limited(prompts.Delete))
		r.Method(http.MethodPost, "/{id}/toggle", limited(prompts.Toggle))
		r.Method(http.MethodPost, "/{id}/duplicate", limited(prompts.Duplicate))
	})

	return r
}
