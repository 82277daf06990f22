// Package resource defines the logical resources the gateway serves and the
// canonical result shape returned to every caller. A resource is a data need
// ("today's games") independent of which upstream provider serves it.
package resource

import (
	"encoding/json"
	"time"
)

// Registered resource names.
const (
	Games     = "games"
	Odds      = "odds"
	Injuries  = "injuries"
	Standings = "standings"
	Teams     = "teams"
)

// All returns every registered resource name.
func All() []string {
	return []string{Games, Odds, Injuries, Standings, Teams}
}

// Params carries caller-supplied request parameters (season, week, date).
type Params map[string]string

// Result is the only value the gateway returns to callers. Data is always
// non-nil: when every live provider fails, the last good payload is returned
// with IsFallback set, and callers must check that flag before treating the
// data as live.
type Result struct {
	Resource   string          `json:"resource"`
	Data       json.RawMessage `json:"data"`
	Source     string          `json:"source"`
	FetchedAt  time.Time       `json:"fetched_at"`
	IsFallback bool            `json:"is_fallback"`
}

// Stale returns a copy of r flagged as fallback data.
func (r *Result) Stale() *Result {
	cp := *r
	cp.IsFallback = true
	return &cp
}
