package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/health"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/middleware"
)

// RouterOptions carries the optional pieces of the HTTP surface.
type RouterOptions struct {
	CORS middleware.CORSConfig
	// Metrics records request metrics when set.
	Metrics *middleware.HTTPMetrics
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
}

// NewRouter creates a chi router with all catalog routes registered.
func NewRouter(
	catalogHandler *CatalogHandler,
	healthHandler *health.Handler,
	opts RouterOptions,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing())
	r.Use(middleware.RequestLogger(logger))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Handler)
	}
	r.Use(middleware.CORS(opts.CORS))
	r.Use(chimw.Compress(5, "application/json"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())

	if opts.MetricsHandler != nil {
		r.Handle("/metrics", opts.MetricsHandler)
	}

	// Catalog API endpoints
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Post("/sync", catalogHandler.Sync)
		r.Get("/suggestions", catalogHandler.Suggestions)
		r.Get("/products/{productID}", catalogHandler.GetProduct)
	})

	// Legacy paths kept for existing frontends
	r.Get("/index", catalogHandler.Sync)
	r.Get("/suggestions", catalogHandler.Suggestions)
	r.Get("/product/{productID}", catalogHandler.GetProduct)

	return r
}
