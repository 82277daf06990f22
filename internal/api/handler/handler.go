// Package handler provides HTTP handlers for all API endpoints. Handlers
// delegate straight to the gateway — no service layer. The gateway returns
// complete canonical JSON; handlers pass it through.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ibyanalytics/nfl-gateway/internal/api/respond"
	"github.com/ibyanalytics/nfl-gateway/internal/config"
	"github.com/ibyanalytics/nfl-gateway/internal/fallback"
	"github.com/ibyanalytics/nfl-gateway/internal/gateway"
	"github.com/ibyanalytics/nfl-gateway/internal/refresh"
	"github.com/ibyanalytics/nfl-gateway/internal/registry"
	"github.com/ibyanalytics/nfl-gateway/internal/resource"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	gw        *gateway.Gateway
	store     fallback.Store
	cfg       *config.Config
	refresher *refresh.Refresher
	logger    *slog.Logger
}

// New creates a Handler with shared dependencies. refresher may be nil when
// scheduled refresh is disabled.
func New(gw *gateway.Gateway, store fallback.Store, cfg *config.Config, refresher *refresh.Refresher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{gw: gw, store: store, cfg: cfg, refresher: refresher, logger: logger}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and registered resources.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":      "NFL Data Gateway",
		"version":   "2.0.0",
		"status":    "running",
		"docs":      "/docs",
		"resources": h.gw.Resources(),
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckStore returns fallback store statistics.
// @Summary Fallback store health check
// @Description Returns fallback store statistics (backend, key counts).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/store [get]
func (h *Handler) HealthCheckStore(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"store":     h.store.Stats(r.Context()),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckProviders reports each provider's circuit breaker state.
// @Summary Provider health check
// @Description Returns per-provider circuit breaker states.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/providers [get]
func (h *Handler) HealthCheckProviders(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"providers": h.gw.BreakerStates(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// RefreshStatus reports scheduled refresh job counters.
// @Summary Refresh job status
// @Description Returns per-resource scheduled refresh counters.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /refresh/status [get]
func (h *Handler) RefreshStatus(w http.ResponseWriter, r *http.Request) {
	if h.refresher == nil {
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
			"enabled": false,
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"enabled": true,
		"jobs":    h.refresher.Jobs(),
	})
}

// GetResource fetches a resource through the gateway.
// @Summary Fetch a resource
// @Description Fetches normalized data for a resource from the first healthy provider, degrading to cached fallback data (flagged via is_fallback and the X-Fallback header).
// @Tags resources
// @Produce json
// @Param resource path string true "Resource name" Enums(games, odds, injuries, standings, teams)
// @Param season query string false "Season year"
// @Param week query string false "Week number"
// @Param date query string false "Date (YYYYMMDD)"
// @Success 200 {object} resource.Result
// @Failure 404 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /api/v1/{resource} [get]
func (h *Handler) GetResource(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "resource")

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.FetchDeadline)
	defer cancel()

	res, err := h.gw.Fetch(ctx, name, h.requestParams(name, r))
	if err != nil {
		switch {
		case errors.Is(err, registry.ErrUnknownResource):
			respond.WriteError(w, http.StatusNotFound, "UNKNOWN_RESOURCE",
				"Unknown resource: "+name)
		case errors.Is(err, gateway.ErrAllSourcesExhausted):
			respond.WriteError(w, http.StatusServiceUnavailable, "ALL_SOURCES_EXHAUSTED",
				"All providers failed and no cached fallback exists for: "+name)
		default:
			h.logger.Error("fetch failed", "resource", name, "error", err)
			respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Fetch failed")
		}
		return
	}

	respond.WriteResult(w, res)
}

// requestParams merges caller query parameters over per-resource defaults so
// a bare GET works for every resource's full provider chain.
func (h *Handler) requestParams(name string, r *http.Request) resource.Params {
	params := registry.DefaultParams(name, time.Now().UTC())
	for key, vals := range r.URL.Query() {
		if len(vals) > 0 && vals[0] != "" {
			params[key] = vals[0]
		}
	}
	return params
}

