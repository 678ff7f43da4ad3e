package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrAlreadyRunning is returned by Start on a task that was already started.
var ErrAlreadyRunning = errors.New("task already running")

// Task runs a job immediately on Start and then once per interval. A tick
// that fires while the previous run is still executing is skipped.
type Task struct {
	name     string
	interval time.Duration
	job      func(ctx context.Context)
	logger   *zap.Logger
	onSkip   func()

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	wg      sync.WaitGroup

	busy    atomic.Bool
	runs    atomic.Int64
	skipped atomic.Int64
}

// NewTask creates a Task. interval must be positive.
func NewTask(name string, interval time.Duration, job func(ctx context.Context), logger *zap.Logger) *Task {
	return &Task{
		name:     name,
		interval: interval,
		job:      job,
		logger:   logger.With(zap.String("task", name)),
	}
}

// OnSkip registers a callback invoked for every skipped tick.
func (t *Task) OnSkip(fn func()) {
	t.onSkip = fn
}

// Name returns the task name.
func (t *Task) Name() string { return t.name }

// Interval returns the tick interval.
func (t *Task) Interval() time.Duration { return t.interval }

// Runs returns how many runs were started.
func (t *Task) Runs() int64 { return t.runs.Load() }

// Skipped returns how many ticks were dropped because a run was in progress.
func (t *Task) Skipped() int64 { return t.skipped.Load() }

// Start launches the task loop. The first run begins immediately.
func (t *Task) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return ErrAlreadyRunning
	}
	if t.interval <= 0 {
		return errors.New("task interval must be positive")
	}

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.running = true

	t.logger.Info("Starting task", zap.Duration("interval", t.interval))

	t.wg.Add(1)
	go t.loop(ctx)
	return nil
}

func (t *Task) loop(ctx context.Context) {
	defer t.wg.Done()

	t.Trigger(ctx)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Trigger(ctx)
		}
	}
}

// Trigger starts one run in the background unless one is already in
// progress. It reports whether a run was started.
func (t *Task) Trigger(ctx context.Context) bool {
	if !t.busy.CompareAndSwap(false, true) {
		t.skipped.Add(1)
		t.logger.Warn("Previous run still in progress, skipping tick")
		if t.onSkip != nil {
			t.onSkip()
		}
		return false
	}

	t.runs.Add(1)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer t.busy.Store(false)
		t.job(ctx)
	}()
	return true
}

// Stop cancels the task and waits for the loop and any in-flight run.
func (t *Task) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.cancel()
	t.running = false
	t.mu.Unlock()

	t.wg.Wait()
	t.logger.Info("Task stopped")
}
