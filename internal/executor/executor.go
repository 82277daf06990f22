// Package executor performs single HTTP fetch attempts against provider
// endpoints. One call, one attempt — retry policy lives entirely in the
// gateway controller. Every attempt is rate-limited per provider via a token
// bucket so priority fallback chains cannot burn a keyed API's quota.
package executor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ibyanalytics/nfl-gateway/internal/registry"
	"github.com/ibyanalytics/nfl-gateway/internal/resource"
)

// ErrorKind classifies why an attempt failed.
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindInvalidURL ErrorKind = "invalid_url" // caught before any network call
	KindTimeout    ErrorKind = "timeout"
	KindNetwork    ErrorKind = "network"
	KindHTTP       ErrorKind = "http" // non-2xx status
)

// AttemptResult is the outcome of one fetch attempt. Ephemeral — used by the
// controller to decide the next action and for diagnostics.
type AttemptResult struct {
	AttemptID uuid.UUID
	Provider  string
	Succeeded bool
	Status    int
	Body      []byte
	ErrorKind ErrorKind
	Err       error
	Elapsed   time.Duration
}

// Executor issues rate-limited HTTP GET attempts.
type Executor struct {
	client *http.Client

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rpm      int

	logger *slog.Logger
}

// New creates an executor. requestsPerMinute applies per provider. The
// http.Client carries no global timeout — each attempt's deadline comes from
// the endpoint via context.
func New(requestsPerMinute int, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	return &Executor{
		client:   &http.Client{},
		limiters: make(map[string]*rate.Limiter),
		rpm:      requestsPerMinute,
		logger:   logger,
	}
}

// Execute performs one GET attempt against an endpoint. The URL is built and
// validated first; an invalid URL short-circuits with KindInvalidURL and zero
// network calls.
func (e *Executor) Execute(ctx context.Context, ep registry.Endpoint, params resource.Params) AttemptResult {
	res := AttemptResult{AttemptID: uuid.New(), Provider: ep.Provider}
	start := time.Now()

	u, err := BuildURL(ep.URLTemplate, params)
	if err != nil {
		res.ErrorKind = KindInvalidURL
		res.Err = err
		res.Elapsed = time.Since(start)
		e.logger.Warn("rejected invalid URL before network call",
			"attempt_id", res.AttemptID, "provider", ep.Provider, "error", err)
		return res
	}

	if err := e.limiter(ep.Provider).Wait(ctx); err != nil {
		res.ErrorKind = classifyCtx(err)
		res.Err = err
		res.Elapsed = time.Since(start)
		return res
	}

	// Secret query params (API keys) join the URL only now, after the
	// template has been validated, so they never appear in attempt errors
	// or logs.
	reqURL := appendQuery(u, ep.Query)

	timeout := ep.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, reqURL, nil)
	if err != nil {
		res.ErrorKind = KindInvalidURL
		res.Err = err
		res.Elapsed = time.Since(start)
		return res
	}
	req.Header.Set("User-Agent", "IBY-NFL-Analytics/2.0")
	req.Header.Set("Accept", "application/json")
	for k, v := range ep.Headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := e.client.Do(req)
	if err != nil {
		res.Err = redactSecrets(err, ep.Query)
		if errors.Is(err, context.DeadlineExceeded) || attemptCtx.Err() == context.DeadlineExceeded {
			res.ErrorKind = KindTimeout
		} else if errors.Is(err, context.Canceled) {
			res.ErrorKind = KindTimeout // caller deadline or shutdown
		} else {
			res.ErrorKind = KindNetwork
		}
		res.Elapsed = time.Since(start)
		e.logger.Warn("fetch attempt failed",
			"attempt_id", res.AttemptID, "provider", ep.Provider,
			"kind", res.ErrorKind, "elapsed", res.Elapsed, "error", res.Err)
		return res
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		res.ErrorKind = KindNetwork
		res.Err = err
		res.Elapsed = time.Since(start)
		return res
	}

	res.Status = resp.StatusCode
	res.Body = body
	res.Elapsed = time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		res.ErrorKind = KindHTTP
		e.logger.Warn("fetch attempt returned error status",
			"attempt_id", res.AttemptID, "provider", ep.Provider,
			"status", resp.StatusCode, "elapsed", res.Elapsed)
		return res
	}

	res.Succeeded = true
	e.logger.Debug("fetch attempt succeeded",
		"attempt_id", res.AttemptID, "provider", ep.Provider,
		"status", resp.StatusCode, "bytes", len(body), "elapsed", res.Elapsed)
	return res
}

func (e *Executor) limiter(provider string) *rate.Limiter {
	e.mu.Lock()
	defer e.mu.Unlock()
	if l, ok := e.limiters[provider]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Limit(float64(e.rpm)/60.0), e.rpm/6+1)
	e.limiters[provider] = l
	return l
}

func classifyCtx(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindNetwork
}

// appendQuery adds secret query parameters to an already-validated URL.
// Empty values are skipped so an unconfigured key leaves the URL untouched.
func appendQuery(u string, query map[string]string) string {
	if len(query) == 0 {
		return u
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return u
	}
	q := parsed.Query()
	for k, v := range query {
		if v != "" {
			q.Set(k, v)
		}
	}
	parsed.RawQuery = q.Encode()
	return parsed.String()
}

// redactSecrets strips secret query values out of an error message. The
// transport embeds the full request URL in its errors, which would otherwise
// put provider keys in the logs.
func redactSecrets(err error, query map[string]string) error {
	if err == nil || len(query) == 0 {
		return err
	}
	msg := err.Error()
	redacted := false
	for _, v := range query {
		if v != "" && strings.Contains(msg, v) {
			msg = strings.ReplaceAll(msg, v, "REDACTED")
			redacted = true
		}
	}
	if !redacted {
		return err
	}
	return errors.New(msg)
}
