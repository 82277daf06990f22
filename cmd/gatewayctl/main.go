// Command gatewayctl is the NFL Data Gateway operations CLI.
//
// Usage:
//
//	gatewayctl resources
//	gatewayctl fetch games --param week=3
//	gatewayctl fetch odds --param markets=h2h
//	gatewayctl refresh --once
//	gatewayctl refresh
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ibyanalytics/nfl-gateway/internal/config"
	"github.com/ibyanalytics/nfl-gateway/internal/db"
	"github.com/ibyanalytics/nfl-gateway/internal/executor"
	"github.com/ibyanalytics/nfl-gateway/internal/fallback"
	"github.com/ibyanalytics/nfl-gateway/internal/gateway"
	"github.com/ibyanalytics/nfl-gateway/internal/normalize"
	"github.com/ibyanalytics/nfl-gateway/internal/refresh"
	"github.com/ibyanalytics/nfl-gateway/internal/registry"
	"github.com/ibyanalytics/nfl-gateway/internal/resource"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "gatewayctl",
		Short: "NFL Data Gateway operations CLI",
	}

	root.AddCommand(resourcesCmd())
	root.AddCommand(fetchCmd())
	root.AddCommand(refreshCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// resources command
// --------------------------------------------------------------------------

func resourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "List registered resources and their providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			reg := registry.Defaults(cfg)
			for _, name := range reg.Resources() {
				endpoints, err := reg.Resolve(name)
				if err != nil {
					return err
				}
				providers := make([]string, 0, len(endpoints))
				for _, ep := range endpoints {
					providers = append(providers, fmt.Sprintf("%s(p%d)", ep.Provider, ep.Priority))
				}
				params, _ := reg.Params(name)
				fmt.Printf("%-10s  providers: %-40s  params: %s\n",
					name, strings.Join(providers, ", "), strings.Join(params, ", "))
			}
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// fetch command
// --------------------------------------------------------------------------

func fetchCmd() *cobra.Command {
	var (
		rawParams []string
		timeout   int
	)
	cmd := &cobra.Command{
		Use:   "fetch <resource>",
		Short: "Fetch one resource through the gateway and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGateway(func(ctx context.Context, gw *gateway.Gateway) error {
				params, err := parseParams(args[0], rawParams)
				if err != nil {
					return err
				}

				fetchCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
				defer cancel()

				start := time.Now()
				res, err := gw.Fetch(fetchCtx, args[0], params)
				if err != nil {
					return err
				}
				logger.Info("Fetch finished",
					"resource", res.Resource, "source", res.Source,
					"fallback", res.IsFallback,
					"duration", time.Since(start).Round(time.Millisecond))
				fmt.Println(string(res.Data))
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&rawParams, "param", nil, "Request parameter as k=v (repeatable)")
	cmd.Flags().IntVar(&timeout, "timeout", 45, "Whole-call deadline in seconds")
	return cmd
}

// --------------------------------------------------------------------------
// refresh command
// --------------------------------------------------------------------------

func refreshCmd() *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Warm the fallback store on the configured schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGateway(func(ctx context.Context, gw *gateway.Gateway) error {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}

				refresher := refresh.New(gw, logger)
				for name, schedule := range cfg.RefreshSchedules {
					job := refresh.Job{Resource: name, Schedule: schedule, Timeout: cfg.FetchDeadline}
					if err := refresher.Add(job); err != nil {
						return fmt.Errorf("schedule %s: %w", name, err)
					}
				}

				if once {
					refresher.RunOnce(ctx)
					for _, job := range refresher.Jobs() {
						logger.Info("Job summary", "resource", job.Resource,
							"runs", job.RunCount, "errors", job.ErrCount, "last_error", job.LastError)
					}
					return nil
				}

				refresher.Start(ctx) // blocks until interrupt
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "Run every job once and exit")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// withGateway handles config loading, store selection, and context
// cancellation around a gateway-using command.
func withGateway(fn func(ctx context.Context, gw *gateway.Gateway) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init fallback store: %w", err)
	}
	defer cleanup()

	reg := registry.Defaults(cfg)
	exec := executor.New(cfg.ProviderRequestsPerMin, logger)
	gw := gateway.New(reg, exec, normalize.NewTable(), store, logger)

	return fn(ctx, gw)
}

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

// parseParams turns repeated --param k=v flags into request parameters,
// filling per-resource defaults the same way the API handler does.
func parseParams(name string, raw []string) (resource.Params, error) {
	params := registry.DefaultParams(name, time.Now().UTC())
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --param %q, expected k=v", kv)
		}
		params[k] = v
	}
	return params, nil
}
