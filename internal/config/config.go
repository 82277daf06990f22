// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/gatewayctl.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// League constants
// --------------------------------------------------------------------------

// CurrentSeason is the default season used when callers omit one.
const CurrentSeason = 2025

// kickoff is the Thursday that opens week 1 of CurrentSeason.
var kickoff = time.Date(2025, time.September, 4, 0, 0, 0, 0, time.UTC)

// CurrentWeek returns the regular-season week number for a given time,
// clamped to [1, 18]. Used as the default when callers omit a week.
func CurrentWeek(t time.Time) int {
	if t.Before(kickoff) {
		return 1
	}
	week := int(t.Sub(kickoff)/(7*24*time.Hour)) + 1
	if week > 18 {
		week = 18
	}
	return week
}

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Inbound rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// External API keys (injected via environment, never in source)
	OddsAPIKey   string
	APISportsKey string

	// Per-attempt fetch behavior
	RequestTimeout         time.Duration
	SleeperTimeout         time.Duration // the full-player-dump endpoint is slow
	MaxAttemptsPerEndpoint int
	RetryBackoff           time.Duration
	ProviderRequestsPerMin int

	// Whole-call deadline applied by the API handler
	FetchDeadline time.Duration

	// Fallback store
	FallbackBackend string // memory, postgres, redis
	FallbackTTL     time.Duration
	DatabaseURL     string
	DBPoolMinConns  int
	DBPoolMaxConns  int
	DBPoolMaxLife   time.Duration
	RedisURL        string

	// Scheduled refresh (fallback cache warming)
	RefreshEnabled   bool
	RefreshSchedules map[string]string // resource name → cron spec

	// CORS proxy passthrough
	ProxyEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	return &Config{
		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:8080",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		OddsAPIKey:   envOr("ODDS_API_KEY", ""),
		APISportsKey: envOr("API_SPORTS_KEY", ""),

		RequestTimeout:         time.Duration(envInt("REQUEST_TIMEOUT_MS", 10000)) * time.Millisecond,
		SleeperTimeout:         time.Duration(envInt("SLEEPER_TIMEOUT_MS", 30000)) * time.Millisecond,
		MaxAttemptsPerEndpoint: envInt("MAX_ATTEMPTS_PER_ENDPOINT", 2),
		RetryBackoff:           time.Duration(envInt("RETRY_BACKOFF_MS", 500)) * time.Millisecond,
		ProviderRequestsPerMin: envInt("PROVIDER_REQUESTS_PER_MINUTE", 60),

		FetchDeadline: time.Duration(envInt("FETCH_DEADLINE_MS", 45000)) * time.Millisecond,

		FallbackBackend: envOr("FALLBACK_BACKEND", "memory"),
		FallbackTTL:     time.Duration(envInt("FALLBACK_TTL_MINUTES", 0)) * time.Minute,
		DatabaseURL:     envOr("DATABASE_URL", ""),
		DBPoolMinConns:  envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns:  envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:   time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,
		RedisURL:        envOr("REDIS_URL", "redis://localhost:6379/0"),

		RefreshEnabled: envBool("REFRESH_ENABLED", false),
		RefreshSchedules: map[string]string{
			"games":     envOr("REFRESH_SCHEDULE_GAMES", "*/5 * * * *"),
			"odds":      envOr("REFRESH_SCHEDULE_ODDS", "*/15 * * * *"),
			"injuries":  envOr("REFRESH_SCHEDULE_INJURIES", "0 * * * *"),
			"standings": envOr("REFRESH_SCHEDULE_STANDINGS", "30 * * * *"),
			"teams":     envOr("REFRESH_SCHEDULE_TEAMS", "0 6 * * *"),
		},

		ProxyEnabled: envBool("PROXY_ENABLED", true),
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
