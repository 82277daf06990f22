// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking, used by the Postgres fallback store.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ibyanalytics/nfl-gateway/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool, ensuring the fallback
// schema exists before prepared statements are registered.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set for the postgres fallback backend")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	// Ensure schema on a throwaway connection before the pool starts
	// preparing statements against it.
	if err := ensureSchema(ctx, cfg.DatabaseURL); err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

func ensureSchema(ctx context.Context, databaseURL string) error {
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connect for schema setup: %w", err)
	}
	defer conn.Close(ctx)

	_, err = conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS gateway_fallback (
			resource   text PRIMARY KEY,
			payload    jsonb NOT NULL,
			source     text NOT NULL,
			fetched_at timestamptz NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure gateway_fallback table: %w", err)
	}
	return nil
}

// registerPreparedStatements registers the statements the fallback store
// uses. Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Fallback store
		"fallback_get": "SELECT payload, source, fetched_at FROM gateway_fallback WHERE resource = $1",
		"fallback_set": `INSERT INTO gateway_fallback (resource, payload, source, fetched_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (resource) DO UPDATE
			SET payload = EXCLUDED.payload, source = EXCLUDED.source, fetched_at = EXCLUDED.fetched_at`,
		"fallback_count": "SELECT count(*), coalesce(min(fetched_at), now()) FROM gateway_fallback",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
