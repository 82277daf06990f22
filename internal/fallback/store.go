// Package fallback persists the last successfully normalized result per
// resource. The gateway writes on every live success and reads only when all
// providers for a resource are exhausted. Writes are last-write-wins per
// entry.
package fallback

import (
	"context"

	"github.com/ibyanalytics/nfl-gateway/internal/resource"
)

// Store is the fallback cache contract. Implementations: in-memory (process
// lifetime), Postgres (survives restarts), Redis (shared across instances).
type Store interface {
	// Get returns the stored result for a resource, reporting whether one
	// exists. The returned result keeps IsFallback=false; callers flag
	// staleness via Result.Stale.
	Get(ctx context.Context, name string) (*resource.Result, bool, error)

	// Set stores a result, replacing any previous entry for its resource.
	Set(ctx context.Context, res *resource.Result) error

	// Stats returns implementation-specific health numbers.
	Stats(ctx context.Context) map[string]interface{}
}
