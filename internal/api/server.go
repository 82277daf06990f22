package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/ibyanalytics/nfl-gateway/internal/api/handler"
	"github.com/ibyanalytics/nfl-gateway/internal/config"
	"github.com/ibyanalytics/nfl-gateway/internal/fallback"
	"github.com/ibyanalytics/nfl-gateway/internal/gateway"
	"github.com/ibyanalytics/nfl-gateway/internal/refresh"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(gw *gateway.Gateway, store fallback.Store, cfg *config.Config, refresher *refresh.Refresher, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS — the whole reason the original dashboard grew proxy scripts;
	// here the API itself is browser-safe.
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Data-Source", "X-Fallback", "X-Fetched-At"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow, logger))
	}

	// --- Handler dependencies ---
	h := handler.New(gw, store, cfg, refresher, logger)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/store", h.HealthCheckStore)
		r.Get("/providers", h.HealthCheckProviders)
	})

	// Refresh job status
	r.Get("/refresh/status", h.RefreshStatus)

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/{resource}", h.GetResource)
	})

	// CORS passthrough proxy for upstreams without permissive CORS
	if cfg.ProxyEnabled {
		r.Get("/proxy", h.Proxy)
	}

	return r
}
