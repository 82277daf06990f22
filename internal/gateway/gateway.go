// Package gateway is the public entry point of the data source gateway: one
// call turns a resource name into normalized JSON, regardless of which
// upstream provider serves it. The controller walks endpoints in priority
// order with per-endpoint retries, then degrades to the fallback store.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/ibyanalytics/nfl-gateway/internal/executor"
	"github.com/ibyanalytics/nfl-gateway/internal/fallback"
	"github.com/ibyanalytics/nfl-gateway/internal/registry"
	"github.com/ibyanalytics/nfl-gateway/internal/resource"
)

// ErrAllSourcesExhausted is the terminal failure: every provider failed and
// no fallback entry exists. The only other caller-visible error is
// registry.ErrUnknownResource.
var ErrAllSourcesExhausted = errors.New("all sources exhausted and no fallback available")

// Executor performs one fetch attempt. Satisfied by *executor.Executor.
type Executor interface {
	Execute(ctx context.Context, ep registry.Endpoint, params resource.Params) executor.AttemptResult
}

// Normalizer maps a raw provider body to canonical JSON. Satisfied by
// *normalize.Table.
type Normalizer interface {
	Normalize(res, provider string, rawBody []byte) (json.RawMessage, error)
}

// Gateway wires the registry, executor, normalizer, and fallback store into
// the single retry/fallback policy point.
type Gateway struct {
	reg      *registry.Registry
	exec     Executor
	norm     Normalizer
	store    fallback.Store
	breakers map[string]*gobreaker.CircuitBreaker
	logger   *slog.Logger
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// New creates a gateway. A circuit breaker is created per provider so one
// flapping upstream trips open without affecting the others.
func New(reg *registry.Registry, exec Executor, norm Normalizer, store fallback.Store, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Gateway{
		reg:      reg,
		exec:     exec,
		norm:     norm,
		store:    store,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
		logger:   logger,
		now:      time.Now,
		sleep:    sleepCtx,
	}
	for _, provider := range reg.Providers() {
		g.breakers[provider] = g.newBreaker(provider)
	}
	return g
}

func (g *Gateway) newBreaker(provider string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    provider,
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.logger.Info("circuit breaker state changed",
				"provider", name, "from", from.String(), "to", to.String())
		},
	})
}

// Fetch resolves a resource through its provider chain and returns the first
// normalized success, the stored fallback flagged stale, or a terminal error.
// The ctx deadline spans the whole call: once it passes, remaining endpoints
// are skipped and the fallback is consulted.
func (g *Gateway) Fetch(ctx context.Context, name string, params resource.Params) (*resource.Result, error) {
	endpoints, err := g.reg.Resolve(name)
	if err != nil {
		return nil, err
	}

	for _, ep := range endpoints {
		if ctx.Err() != nil {
			break
		}
		res, done := g.tryEndpoint(ctx, name, ep, params)
		if done {
			return res, nil
		}
	}

	return g.degrade(ctx, name)
}

// tryEndpoint runs the retry loop for a single endpoint. done=true means a
// normalized result is ready.
func (g *Gateway) tryEndpoint(ctx context.Context, name string, ep registry.Endpoint, params resource.Params) (*resource.Result, bool) {
	// A URL that cannot be built is a configuration gap, not provider
	// health: skip the endpoint without counting a failure against the
	// provider's breaker.
	if _, err := executor.BuildURL(ep.URLTemplate, params); err != nil {
		g.logger.Warn("endpoint cannot build request URL, advancing",
			"resource", name, "provider", ep.Provider, "error", err)
		return nil, false
	}

	attempts := ep.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := ep.Backoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}

	br := g.breakers[ep.Provider]

	for attempt := 0; attempt < attempts; attempt++ {
		if ctx.Err() != nil {
			return nil, false
		}

		att, ok := g.attempt(ctx, br, ep, params)
		if !ok {
			// Breaker open: this provider is sitting out, move on.
			g.logger.Warn("provider circuit open, skipping endpoint",
				"resource", name, "provider", ep.Provider)
			return nil, false
		}

		if att.Succeeded {
			data, err := g.norm.Normalize(name, ep.Provider, att.Body)
			if err != nil {
				// Same as a failed fetch: this endpoint cannot serve the
				// resource right now, advance to the next one.
				g.logger.Warn("normalization failed",
					"resource", name, "provider", ep.Provider,
					"attempt_id", att.AttemptID, "error", err)
				return nil, false
			}
			result := &resource.Result{
				Resource:  name,
				Data:      data,
				Source:    ep.Provider,
				FetchedAt: g.now().UTC(),
			}
			if err := g.store.Set(ctx, result); err != nil {
				g.logger.Error("fallback store write failed",
					"resource", name, "error", err)
			}
			return result, true
		}

		if !retryable(att) {
			g.logger.Warn("permanent endpoint failure, advancing",
				"resource", name, "provider", ep.Provider,
				"kind", att.ErrorKind, "status", att.Status)
			return nil, false
		}

		if attempt < attempts-1 {
			wait := backoff << attempt // base * 2^attempt
			g.logger.Info("retrying endpoint after backoff",
				"resource", name, "provider", ep.Provider,
				"attempt", attempt+1, "of", attempts, "backoff", wait)
			if err := g.sleep(ctx, wait); err != nil {
				return nil, false
			}
		}
	}
	return nil, false
}

// attempt routes one executor call through the provider's circuit breaker.
// ok=false means the breaker refused the call.
func (g *Gateway) attempt(ctx context.Context, br *gobreaker.CircuitBreaker, ep registry.Endpoint, params resource.Params) (executor.AttemptResult, bool) {
	if br == nil {
		return g.exec.Execute(ctx, ep, params), true
	}
	v, err := br.Execute(func() (interface{}, error) {
		att := g.exec.Execute(ctx, ep, params)
		if att.Succeeded {
			return att, nil
		}
		return att, fmt.Errorf("%s attempt failed: %s", ep.Provider, att.ErrorKind)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return executor.AttemptResult{}, false
	}
	return v.(executor.AttemptResult), true
}

// retryable reports whether the controller should retry the same endpoint.
// Timeouts, network failures, and 5xx retry with backoff; invalid URLs and
// 4xx client errors are permanent for the endpoint.
func retryable(att executor.AttemptResult) bool {
	switch att.ErrorKind {
	case executor.KindTimeout, executor.KindNetwork:
		return true
	case executor.KindHTTP:
		return att.Status >= 500
	default:
		return false
	}
}

// degrade serves the stored fallback, or fails with ErrAllSourcesExhausted.
// The store read uses a detached context so an expired caller deadline can
// still be answered with cached data.
func (g *Gateway) degrade(ctx context.Context, name string) (*resource.Result, error) {
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	cached, ok, err := g.store.Get(storeCtx, name)
	if err != nil {
		g.logger.Error("fallback store read failed", "resource", name, "error", err)
	}
	if ok {
		g.logger.Warn("serving fallback data", "resource", name,
			"source", cached.Source, "fetched_at", cached.FetchedAt)
		return cached.Stale(), nil
	}
	return nil, fmt.Errorf("%s: %w", name, ErrAllSourcesExhausted)
}

// BreakerStates reports each provider's circuit state for health endpoints.
func (g *Gateway) BreakerStates() map[string]string {
	out := make(map[string]string, len(g.breakers))
	for provider, br := range g.breakers {
		out[provider] = br.State().String()
	}
	return out
}

// Resources lists the registered resource names.
func (g *Gateway) Resources() []string {
	return g.reg.Resources()
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
