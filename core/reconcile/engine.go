package reconcile

import (
	"context"
	"sync"
	"time"

	"vonatinfo/core/utils"

	"go.uber.org/zap"
)

// DefaultSinkTimeout bounds one OnCycle call.
const DefaultSinkTimeout = 30 * time.Second

// sinkQueueSize is how many cycles may wait for a slow sink before new
// cycles are dropped for it.
const sinkQueueSize = 16

// Engine runs the single-writer pipeline: merge a batch, sweep, publish,
// then notify sinks. Concurrent Apply calls are serialized. Sinks run on
// their own goroutines in cycle order, outside the writer lock, so a slow
// sink never holds back the roster.
type Engine struct {
	mu          sync.Mutex
	store       *Store
	publisher   *Publisher
	sinks       []*sinkWorker
	pending     []Sink
	sinkTimeout time.Duration
	closed      bool
	wg          sync.WaitGroup
	logger      *zap.Logger
	loc         *time.Location
	now         func() time.Time
}

type sinkWorker struct {
	sink  Sink
	queue chan Cycle
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock used for merge and sweep decisions.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithSinks registers sinks notified after every cycle.
func WithSinks(sinks ...Sink) Option {
	return func(e *Engine) { e.pending = append(e.pending, sinks...) }
}

// WithSinkTimeout replaces DefaultSinkTimeout.
func WithSinkTimeout(d time.Duration) Option {
	return func(e *Engine) { e.sinkTimeout = d }
}

// NewEngine creates an Engine. loc is the timezone that all seconds-of-day
// values refer to.
func NewEngine(logger *zap.Logger, loc *time.Location, opts ...Option) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	e := &Engine{
		store:       NewStore(),
		publisher:   NewPublisher(),
		sinkTimeout: DefaultSinkTimeout,
		logger:      logger,
		loc:         loc,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, s := range e.pending {
		e.startSink(s)
	}
	e.pending = nil
	return e
}

// AddSink registers an additional sink. It is ignored after Close.
func (e *Engine) AddSink(s Sink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.startSink(s)
}

func (e *Engine) startSink(s Sink) {
	w := &sinkWorker{sink: s, queue: make(chan Cycle, sinkQueueSize)}
	e.sinks = append(e.sinks, w)
	e.wg.Add(1)
	go e.runSink(w)
}

func (e *Engine) runSink(w *sinkWorker) {
	defer e.wg.Done()
	for c := range w.queue {
		ctx, cancel := context.WithTimeout(context.Background(), e.sinkTimeout)
		if err := w.sink.OnCycle(ctx, c); err != nil {
			e.logger.Warn("Sink failed", zap.String("sink", w.sink.Name()), zap.String("source", c.Source), zap.Error(err))
		}
		cancel()
	}
}

// Close stops accepting cycles for sinks and waits until every queued
// cycle was handled.
func (e *Engine) Close() {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		for _, w := range e.sinks {
			close(w.queue)
		}
	}
	e.mu.Unlock()
	e.wg.Wait()
}

// Publisher returns the snapshot publisher used by readers.
func (e *Engine) Publisher() *Publisher {
	return e.publisher
}

// Location returns the engine's timezone.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Apply merges batch into the store, sweeps, and publishes a new snapshot,
// then queues the cycle for every sink without waiting for them. It returns
// an error only if the snapshot could not be built, in which case the
// previous snapshot stays visible.
func (e *Engine) Apply(ctx context.Context, batch Batch) (Cycle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	now := e.now()
	nowOfDay := utils.SecondsOfDay(now, e.loc)

	stats := e.store.Merge(batch, nowOfDay)
	evicted := e.store.Sweep(now.Unix(), nowOfDay)

	snap, err := e.publisher.Publish(e.store.Records(), now)
	if err != nil {
		return Cycle{}, err
	}

	cycle := Cycle{
		Source:   batch.Source,
		Snapshot: snap,
		Stats:    stats,
		Evicted:  evicted,
		Duration: time.Since(start),
	}

	e.logger.Debug("Cycle published",
		zap.String("source", batch.Source),
		zap.Int("candidates", len(batch.Candidates)),
		zap.Int("inserted", stats[OutcomeInserted]),
		zap.Int("replaced", stats[OutcomeReplaced]+stats[OutcomeOverridden]),
		zap.Int("rejected", stats[OutcomeRejected]),
		zap.Int("skipped", stats[OutcomeSkipped]),
		zap.Int("evicted", len(evicted)),
		zap.Int("roster", snap.Len()),
	)

	// Queued under the lock so every sink sees cycles in publish order.
	if !e.closed {
		for _, w := range e.sinks {
			select {
			case w.queue <- cycle:
			default:
				e.logger.Warn("Sink is behind, cycle dropped",
					zap.String("sink", w.sink.Name()),
					zap.Uint64("seq", snap.Seq()),
				)
			}
		}
	}

	return cycle, nil
}

