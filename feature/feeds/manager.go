package feeds

import (
	"context"
	"fmt"
	"sync"

	"vonatinfo/core/reconcile"

	"go.uber.org/zap"
)

// Manager owns the runners of all enabled feeds.
type Manager struct {
	mu      sync.RWMutex
	runners []*Runner
	logger  *zap.Logger
}

// NewManager creates an empty Manager.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger}
}

// Register adds a runner. Names must be unique.
func (m *Manager) Register(r *Runner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.runners {
		if existing.Name() == r.Name() {
			return fmt.Errorf("feed %s already registered", r.Name())
		}
	}
	m.runners = append(m.runners, r)
	return nil
}

// Runners returns the registered runners in registration order.
func (m *Manager) Runners() []*Runner {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*Runner(nil), m.runners...)
}

// StartAll starts every runner. Runners started before a failure are stopped.
func (m *Manager) StartAll(ctx context.Context) error {
	started := make([]*Runner, 0, len(m.runners))
	for _, r := range m.Runners() {
		if err := r.Start(ctx); err != nil {
			for _, s := range started {
				s.Stop()
			}
			return fmt.Errorf("start feed %s: %w", r.Name(), err)
		}
		m.logger.Info("Feed started", zap.String("feed", r.Name()))
		started = append(started, r)
	}
	return nil
}

// StopAll stops every runner.
func (m *Manager) StopAll() {
	for _, r := range m.Runners() {
		r.Stop()
	}
}

// RunAllOnce polls every feed once, in registration order, and returns the
// last cycle.
func (m *Manager) RunAllOnce(ctx context.Context) (reconcile.Cycle, error) {
	var last reconcile.Cycle
	for _, r := range m.Runners() {
		c, err := r.RunOnce(ctx)
		if err != nil {
			return reconcile.Cycle{}, err
		}
		last = c
	}
	return last, nil
}

// Statuses returns the status of every feed.
func (m *Manager) Statuses() []Status {
	runners := m.Runners()
	out := make([]Status, 0, len(runners))
	for _, r := range runners {
		out = append(out, r.Status())
	}
	return out
}
