// Package normalize maps heterogeneous provider response shapes into the
// canonical schema per resource. The mapping table is a closed set keyed by
// (resource, provider) — shape selection is by explicit tag, never by
// sniffing properties at runtime.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ibyanalytics/nfl-gateway/internal/registry"
	"github.com/ibyanalytics/nfl-gateway/internal/resource"
)

// ErrMalformedResponse means the required canonical fields could not be
// located after applying every known field-path variant for the provider.
// The gateway treats it exactly like a failed fetch attempt.
var ErrMalformedResponse = errors.New("malformed provider response")

// Func maps one provider's raw body into a canonical value.
type Func func(body []byte) (interface{}, error)

type key struct {
	resource string
	provider string
}

// Table holds the closed (resource, provider) → mapping function set.
type Table struct {
	funcs map[key]Func
}

// NewTable builds the full mapping table for all supported pairs.
func NewTable() *Table {
	t := &Table{funcs: make(map[key]Func)}

	t.register(resource.Games, registry.ProviderESPN, espnGames)
	t.register(resource.Games, registry.ProviderAPISports, apiSportsGames)

	t.register(resource.Odds, registry.ProviderOddsAPI, oddsAPIGameOdds)

	t.register(resource.Injuries, registry.ProviderESPN, espnInjuries)
	t.register(resource.Injuries, registry.ProviderSleeper, sleeperInjuries)
	t.register(resource.Injuries, registry.ProviderAPISports, apiSportsInjuries)

	t.register(resource.Standings, registry.ProviderESPN, espnStandings)
	t.register(resource.Standings, registry.ProviderAPISports, apiSportsStandings)

	t.register(resource.Teams, registry.ProviderESPN, espnTeams)
	t.register(resource.Teams, registry.ProviderNFLverse, nflverseTeams)

	return t
}

func (t *Table) register(res, provider string, fn Func) {
	t.funcs[key{res, provider}] = fn
}

// Normalize translates rawBody for a (resource, provider) pair and returns
// the canonical payload as JSON.
func (t *Table) Normalize(res, provider string, rawBody []byte) (json.RawMessage, error) {
	fn, ok := t.funcs[key{res, provider}]
	if !ok {
		return nil, fmt.Errorf("no normalizer registered for %s/%s", res, provider)
	}
	v, err := fn(rawBody)
	if err != nil {
		return nil, fmt.Errorf("normalize %s/%s: %w", res, provider, err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode canonical %s/%s: %w", res, provider, err)
	}
	return data, nil
}
