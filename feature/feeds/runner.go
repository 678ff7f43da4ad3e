package feeds

import (
	"context"
	"sync"
	"time"

	"vonatinfo/core/reconcile"
	"vonatinfo/core/scheduler"

	"go.uber.org/zap"
)

// Metrics receives per-feed poll observations.
type Metrics interface {
	ObservePoll(feed string, candidates int, err error, took time.Duration)
	SkippedTick(feed string)
}

// Status is the externally visible health of one feed.
type Status struct {
	Feed                string    `json:"feed"`
	Authoritative       bool      `json:"authoritative"`
	Interval            string    `json:"interval"`
	LastRun             time.Time `json:"lastRun"`
	LastSuccess         time.Time `json:"lastSuccess"`
	LastError           string    `json:"lastError,omitempty"`
	LastCandidates      int       `json:"lastCandidates"`
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	Runs                int64     `json:"runs"`
	SkippedTicks        int64     `json:"skippedTicks"`
}

// Runner polls one adapter on its own schedule and feeds every result,
// empty or not, through the engine.
type Runner struct {
	adapter reconcile.Adapter
	engine  *reconcile.Engine
	task    *scheduler.Task
	logger  *zap.Logger
	metrics Metrics

	mu     sync.RWMutex
	status Status
}

// NewRunner binds adapter to engine with the given poll interval.
// metrics may be nil.
func NewRunner(adapter reconcile.Adapter, engine *reconcile.Engine, interval time.Duration, logger *zap.Logger, metrics Metrics) *Runner {
	r := &Runner{
		adapter: adapter,
		engine:  engine,
		logger:  logger.With(zap.String("feed", adapter.Name())),
		metrics: metrics,
		status: Status{
			Feed:          adapter.Name(),
			Authoritative: adapter.Authoritative(),
			Interval:      interval.String(),
		},
	}
	r.task = scheduler.NewTask(adapter.Name(), interval, func(ctx context.Context) {
		_, _ = r.RunOnce(ctx)
	}, logger)
	r.task.OnSkip(func() {
		if r.metrics != nil {
			r.metrics.SkippedTick(adapter.Name())
		}
	})
	return r
}

// Name returns the feed name.
func (r *Runner) Name() string { return r.adapter.Name() }

// Start begins periodic polling.
func (r *Runner) Start(ctx context.Context) error { return r.task.Start(ctx) }

// Stop halts polling and waits for an in-flight cycle.
func (r *Runner) Stop() { r.task.Stop() }

// RunOnce polls the adapter once and applies the batch. A failed poll is
// applied as an empty batch so that sweep and publish still happen.
func (r *Runner) RunOnce(ctx context.Context) (reconcile.Cycle, error) {
	start := time.Now()
	candidates, pollErr := r.adapter.Poll(ctx)
	took := time.Since(start)

	if pollErr != nil {
		candidates = nil
		r.logger.Warn("Feed poll failed", zap.Error(pollErr), zap.Duration("took", took))
	} else {
		r.logger.Debug("Feed polled", zap.Int("candidates", len(candidates)), zap.Duration("took", took))
	}
	if r.metrics != nil {
		r.metrics.ObservePoll(r.adapter.Name(), len(candidates), pollErr, took)
	}
	r.record(start, len(candidates), pollErr)

	cycle, err := r.engine.Apply(ctx, reconcile.Batch{
		Source:        r.adapter.Name(),
		Authoritative: r.adapter.Authoritative(),
		Candidates:    candidates,
	})
	if err != nil {
		r.logger.Error("Cycle failed", zap.Error(err))
		return reconcile.Cycle{}, err
	}
	return cycle, nil
}

func (r *Runner) record(at time.Time, candidates int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.LastRun = at
	r.status.LastCandidates = candidates
	if err != nil {
		r.status.LastError = err.Error()
		r.status.ConsecutiveFailures++
		return
	}
	r.status.LastError = ""
	r.status.LastSuccess = at
	r.status.ConsecutiveFailures = 0
}

// Status returns a copy of the feed status.
func (r *Runner) Status() Status {
	r.mu.RLock()
	s := r.status
	r.mu.RUnlock()
	s.Runs = r.task.Runs()
	s.SkippedTicks = r.task.Skipped()
	return s
}
