package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/hecms/internal/infra/http/middleware"
	"github.com/xavierca1/hecms/internal/usecase"
)

type RouterConfig struct {
	AllowedOrigins   []string
	CaptureRateLimit int
	Health           *HealthHandler
}

// NewRouter wires every HTTP route onto engine.
func NewRouter(engine *usecase.Engine, cfg RouterConfig) http.Handler {
	leadHandler := NewLeadHandler(engine, cfg.CaptureRateLimit)
	transferHandler := NewTransferHandler(engine)
	reportHandler := NewReportHandler(engine)
	automationHandler := NewAutomationHandler(engine)
	eventHandler := NewEventHandler(engine)

	health := cfg.Health
	if health == nil {
		health = NewHealthHandler(engine, "", nil)
	}

	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(middleware.Metrics)

	r.Get("/health", health.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/programs", leadHandler.Programs)
	r.Get("/pipeline", leadHandler.Pipeline)

	r.Route("/leads", func(r chi.Router) {
		r.Get("/", leadHandler.List)
		r.Post("/", leadHandler.Create)
		r.Get("/export", transferHandler.Export)
		r.Post("/import", transferHandler.Import)
		r.Get("/{id}", leadHandler.Get)
		r.Put("/{id}", leadHandler.Update)
		r.Delete("/{id}", leadHandler.Delete)
	})

	r.Route("/reports", func(r chi.Router) {
		r.Get("/", reportHandler.List)
		r.Post("/", reportHandler.Save)
		r.Get("/{id}", reportHandler.Get)
		r.Get("/{id}/leads", reportHandler.Leads)
	})

	r.Get("/automations", automationHandler.ListRules)
	r.Get("/automations/{type}", automationHandler.GetRule)
	r.Put("/automations/{type}", automationHandler.PutRule)

	r.Get("/email/templates", automationHandler.ListTemplates)
	r.Post("/email/templates", automationHandler.SaveTemplate)
	r.Delete("/email/templates/{id}", automationHandler.DeleteTemplate)

	r.Get("/events", eventHandler.List)
	r.Post("/events/track", eventHandler.Track)

	r.Post("/cms/lead", leadHandler.CaptureLead)

	return r
}
