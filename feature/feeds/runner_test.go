package feeds

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vonatinfo/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAdapter struct {
	name          string
	authoritative bool
	records       []reconcile.TripRecord
	err           error
}

func (f *fakeAdapter) Name() string        { return f.name }
func (f *fakeAdapter) Authoritative() bool { return f.authoritative }
func (f *fakeAdapter) Poll(ctx context.Context) ([]reconcile.TripRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

type fakeMetrics struct {
	mu     sync.Mutex
	polls  []string
	errors int
	skips  int
}

func (m *fakeMetrics) ObservePoll(feed string, candidates int, err error, took time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.polls = append(m.polls, feed)
	if err != nil {
		m.errors++
	}
}

func (m *fakeMetrics) SkippedTick(feed string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skips++
}

func record(key string, observedAt int64) reconcile.TripRecord {
	return reconcile.TripRecord{
		Key:        key,
		Position:   reconcile.VehiclePosition{Source: "test", VehicleID: key, ObservedAt: observedAt},
		ObservedAt: observedAt,
	}
}

func TestRunner_RunOnceAppliesBatch(t *testing.T) {
	now := time.Now()
	engine := reconcile.NewEngine(zap.NewNop(), time.UTC)
	adapter := &fakeAdapter{name: "mav", records: []reconcile.TripRecord{record("1", now.Unix())}}
	metrics := &fakeMetrics{}
	r := NewRunner(adapter, engine, time.Minute, zap.NewNop(), metrics)

	cycle, err := r.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, cycle.Stats[reconcile.OutcomeInserted])
	_, ok := engine.Publisher().ByKey("1")
	assert.True(t, ok)

	st := r.Status()
	assert.Equal(t, "mav", st.Feed)
	assert.Equal(t, 1, st.LastCandidates)
	assert.Empty(t, st.LastError)
	assert.False(t, st.LastSuccess.IsZero())
	assert.Equal(t, []string{"mav"}, metrics.polls)
}

func TestRunner_FailedPollKeepsRoster(t *testing.T) {
	now := time.Now()
	engine := reconcile.NewEngine(zap.NewNop(), time.UTC)
	good := NewRunner(&fakeAdapter{name: "mav", records: []reconcile.TripRecord{record("1", now.Unix())}}, engine, time.Minute, zap.NewNop(), nil)
	bad := NewRunner(&fakeAdapter{name: "oebb", err: errors.New("timeout")}, engine, time.Minute, zap.NewNop(), nil)

	_, err := good.RunOnce(context.Background())
	require.NoError(t, err)
	cycle, err := bad.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "oebb", cycle.Source)
	assert.Equal(t, 1, cycle.Snapshot.Len())

	st := bad.Status()
	assert.Equal(t, "timeout", st.LastError)
	assert.Equal(t, 1, st.ConsecutiveFailures)
	assert.True(t, st.LastSuccess.IsZero())

	_, err = bad.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, bad.Status().ConsecutiveFailures)
}

func TestRunner_AuthoritativeFlagIsForwarded(t *testing.T) {
	now := time.Now().Unix()
	engine := reconcile.NewEngine(zap.NewNop(), time.UTC)
	mav := NewRunner(&fakeAdapter{name: "mav", records: []reconcile.TripRecord{record("123", now)}}, engine, time.Minute, zap.NewNop(), nil)

	older := record("123", now-100)
	older.Position.VehicleID = "railjet"
	oebb := NewRunner(&fakeAdapter{name: "oebb", authoritative: true, records: []reconcile.TripRecord{older}}, engine, time.Minute, zap.NewNop(), nil)

	_, err := mav.RunOnce(context.Background())
	require.NoError(t, err)
	_, err = oebb.RunOnce(context.Background())
	require.NoError(t, err)

	got, ok := engine.Publisher().ByKey("123")
	require.True(t, ok)
	assert.Equal(t, "railjet", got.Position.VehicleID)
}

func TestManager(t *testing.T) {
	engine := reconcile.NewEngine(zap.NewNop(), time.UTC)
	m := NewManager(zap.NewNop())
	now := time.Now().Unix()

	require.NoError(t, m.Register(NewRunner(&fakeAdapter{name: "mav", records: []reconcile.TripRecord{record("1", now)}}, engine, time.Hour, zap.NewNop(), nil)))
	require.NoError(t, m.Register(NewRunner(&fakeAdapter{name: "oebb", records: []reconcile.TripRecord{record("2", now)}}, engine, time.Hour, zap.NewNop(), nil)))
	assert.Error(t, m.Register(NewRunner(&fakeAdapter{name: "mav"}, engine, time.Hour, zap.NewNop(), nil)))

	cycle, err := m.RunAllOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "oebb", cycle.Source)
	assert.Equal(t, 2, cycle.Snapshot.Len())

	statuses := m.Statuses()
	require.Len(t, statuses, 2)
	assert.Equal(t, "mav", statuses[0].Feed)
	assert.Equal(t, "oebb", statuses[1].Feed)

	require.NoError(t, m.StartAll(context.Background()))
	assert.Eventually(t, func() bool {
		for _, s := range m.Statuses() {
			if s.Runs < 1 {
				return false
			}
		}
		return true
	}, time.Second, 5*time.Millisecond)
	m.StopAll()
}
