// Package refresh periodically re-fetches resources through the gateway so
// the fallback store always holds something recent. Replaces the pile of
// cron wrapper scripts the dashboard used to carry — all scheduled work is
// driven from Go.
package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ibyanalytics/nfl-gateway/internal/gateway"
	"github.com/ibyanalytics/nfl-gateway/internal/registry"
	"github.com/ibyanalytics/nfl-gateway/internal/resource"
)

// Job is one scheduled warm-up: fetch a resource with fixed params on a cron
// schedule.
type Job struct {
	Resource string
	Schedule string // standard 5-field cron spec
	Params   resource.Params
	Timeout  time.Duration
}

// JobStatus is the observable state of a scheduled job.
type JobStatus struct {
	Resource  string    `json:"resource"`
	Schedule  string    `json:"schedule"`
	LastRun   time.Time `json:"last_run,omitempty"`
	RunCount  int       `json:"run_count"`
	ErrCount  int       `json:"error_count"`
	LastError string    `json:"last_error,omitempty"`
}

// Refresher owns the cron scheduler and per-job counters.
type Refresher struct {
	gw     *gateway.Gateway
	cron   *cron.Cron
	logger *slog.Logger

	mu   sync.Mutex
	jobs map[string]*JobStatus
	list []Job
}

// New creates a refresher around a gateway.
func New(gw *gateway.Gateway, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		gw:     gw,
		cron:   cron.New(),
		logger: logger,
		jobs:   make(map[string]*JobStatus),
	}
}

// Add registers a job with the scheduler.
func (r *Refresher) Add(job Job) error {
	if job.Timeout <= 0 {
		job.Timeout = time.Minute
	}
	_, err := r.cron.AddFunc(job.Schedule, func() { r.run(job) })
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.Resource] = &JobStatus{Resource: job.Resource, Schedule: job.Schedule}
	r.list = append(r.list, job)
	return nil
}

// Start launches the scheduler. Blocks until ctx is cancelled. Intended to
// be called with `go`.
func (r *Refresher) Start(ctx context.Context) {
	r.cron.Start()
	r.logger.Info("refresh scheduler started", "jobs", len(r.list))
	<-ctx.Done()
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	r.logger.Info("refresh scheduler stopped")
}

// RunOnce fetches every registered job immediately, in order. Used by the
// CLI's one-shot mode and at startup to prime the store.
func (r *Refresher) RunOnce(ctx context.Context) {
	r.mu.Lock()
	jobs := make([]Job, len(r.list))
	copy(jobs, r.list)
	r.mu.Unlock()

	for _, job := range jobs {
		if ctx.Err() != nil {
			return
		}
		r.run(job)
	}
}

// Jobs returns a snapshot of all job statuses.
func (r *Refresher) Jobs() []JobStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]JobStatus, 0, len(r.list))
	for _, job := range r.list {
		out = append(out, *r.jobs[job.Resource])
	}
	return out
}

func (r *Refresher) run(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), job.Timeout)
	defer cancel()

	params := job.Params
	if len(params) == 0 {
		// Warm the full provider chain, not just the endpoints that need
		// no parameters.
		params = registry.DefaultParams(job.Resource, time.Now().UTC())
	}

	start := time.Now()
	res, err := r.gw.Fetch(ctx, job.Resource, params)

	r.mu.Lock()
	status := r.jobs[job.Resource]
	status.LastRun = start.UTC()
	status.RunCount++
	if err != nil {
		status.ErrCount++
		status.LastError = err.Error()
	} else if res.IsFallback {
		// All providers down; nothing new was cached.
		status.ErrCount++
		status.LastError = "all providers failed, fallback unchanged"
	} else {
		status.LastError = ""
	}
	r.mu.Unlock()

	if err != nil {
		r.logger.Error("refresh job failed",
			"resource", job.Resource, "duration", time.Since(start).Round(time.Millisecond), "error", err)
		return
	}
	r.logger.Info("refresh job complete",
		"resource", job.Resource, "source", res.Source,
		"fallback", res.IsFallback, "duration", time.Since(start).Round(time.Millisecond))
}
