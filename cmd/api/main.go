// Command api is the NFL Data Gateway API server.
//
// Usage:
//
//	nfl-gateway-api
//	API_PORT=8080 nfl-gateway-api

// @title NFL Data Gateway API
// @version 2.0.0
// @description Multi-source NFL data gateway. Fetches games, odds, injuries, standings, and teams from ESPN, The Odds API, API-Sports, Sleeper, and nflverse, normalizes them into one canonical schema, and degrades to cached fallback data when providers fail.
// @host localhost:8000
// @BasePath /
// @schemes http https
// @contact.name IBY Analytics
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/ibyanalytics/nfl-gateway/internal/api"
	"github.com/ibyanalytics/nfl-gateway/internal/config"
	"github.com/ibyanalytics/nfl-gateway/internal/db"
	"github.com/ibyanalytics/nfl-gateway/internal/executor"
	"github.com/ibyanalytics/nfl-gateway/internal/fallback"
	"github.com/ibyanalytics/nfl-gateway/internal/gateway"
	"github.com/ibyanalytics/nfl-gateway/internal/normalize"
	"github.com/ibyanalytics/nfl-gateway/internal/refresh"
	"github.com/ibyanalytics/nfl-gateway/internal/registry"

	_ "github.com/ibyanalytics/nfl-gateway/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Fallback store
	store, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize fallback store", "error", err)
		os.Exit(1)
	}
	defer cleanup()
	logger.Info("Fallback store initialized", "backend", cfg.FallbackBackend)

	// Gateway
	reg := registry.Defaults(cfg)
	exec := executor.New(cfg.ProviderRequestsPerMin, logger)
	gw := gateway.New(reg, exec, normalize.NewTable(), store, logger)
	logger.Info("Gateway initialized",
		"resources", reg.Resources(), "providers", reg.Providers())

	// Scheduled refresh (fallback cache warming)
	var refresher *refresh.Refresher
	if cfg.RefreshEnabled {
		refresher = refresh.New(gw, logger)
		for name, schedule := range cfg.RefreshSchedules {
			job := refresh.Job{Resource: name, Schedule: schedule, Timeout: cfg.FetchDeadline}
			if err := refresher.Add(job); err != nil {
				logger.Error("Failed to schedule refresh job", "resource", name, "error", err)
				os.Exit(1)
			}
		}
		go refresher.Start(ctx)
		logger.Info("Refresh scheduler started", "jobs", len(cfg.RefreshSchedules))
	} else {
		logger.Info("Refresh scheduler disabled (REFRESH_ENABLED=false)")
	}

	// Create router
	router := api.NewRouter(gw, store, cfg, refresher, logger)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting NFL Data Gateway API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}

// buildStore selects the fallback store backend from configuration.
func buildStore(ctx context.Context, cfg *config.Config) (fallback.Store, func(), error) {
	switch cfg.FallbackBackend {
	case "postgres":
		pool, err := db.New(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return fallback.NewPostgres(pool), pool.Close, nil
	case "redis":
		store, err := fallback.NewRedis(ctx, cfg.RedisURL, cfg.FallbackTTL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case "memory":
		return fallback.NewMemory(cfg.FallbackTTL), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown fallback backend %q", cfg.FallbackBackend)
	}
}
