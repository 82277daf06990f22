package fallback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ibyanalytics/nfl-gateway/internal/db"
	"github.com/ibyanalytics/nfl-gateway/internal/resource"
)

// querier is the slice of db.Pool the store actually uses, narrowed so the
// prepared-statement paths can be exercised without a live server.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres stores fallback entries in the gateway_fallback table so cached
// data survives restarts. The upsert makes per-entry writes last-write-wins.
type Postgres struct {
	pool querier
}

// NewPostgres creates a Postgres-backed store on an existing pool.
func NewPostgres(pool *db.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Get(ctx context.Context, name string) (*resource.Result, bool, error) {
	var payload []byte
	var source string
	var fetchedAt time.Time

	err := p.pool.QueryRow(ctx, "fallback_get", name).Scan(&payload, &source, &fetchedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("fallback get %q: %w", name, err)
	}

	return &resource.Result{
		Resource:  name,
		Data:      payload,
		Source:    source,
		FetchedAt: fetchedAt,
	}, true, nil
}

func (p *Postgres) Set(ctx context.Context, res *resource.Result) error {
	_, err := p.pool.Exec(ctx, "fallback_set",
		res.Resource, []byte(res.Data), res.Source, res.FetchedAt)
	if err != nil {
		return fmt.Errorf("fallback set %q: %w", res.Resource, err)
	}
	return nil
}

func (p *Postgres) Stats(ctx context.Context) map[string]interface{} {
	var count int
	var oldest time.Time
	if err := p.pool.QueryRow(ctx, "fallback_count").Scan(&count, &oldest); err != nil {
		return map[string]interface{}{"backend": "postgres", "error": err.Error()}
	}
	return map[string]interface{}{
		"backend":    "postgres",
		"total_keys": count,
		"oldest":     oldest.UTC().Format(time.RFC3339),
	}
}
