package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"vonatinfo/core/reconcile"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObservePoll(t *testing.T) {
	c := NewCollector()

	c.ObservePoll("mav", 120, nil, 300*time.Millisecond)
	c.ObservePoll("mav", 0, errors.New("boom"), time.Second)
	c.SkippedTick("oebb")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Polls.WithLabelValues("mav")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.PollFailures.WithLabelValues("mav")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.Candidates.WithLabelValues("mav")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.SkippedTicks.WithLabelValues("oebb")))
}

func TestCollector_OnCycle(t *testing.T) {
	c := NewCollector()
	pub := reconcile.NewPublisher()
	at := time.Unix(1736930000, 0)
	snap, err := pub.Publish([]reconcile.TripRecord{{Key: "a"}, {Key: "b"}}, at)
	require.NoError(t, err)

	err = c.OnCycle(context.Background(), reconcile.Cycle{
		Source:   "oebb",
		Snapshot: snap,
		Stats:    reconcile.MergeStats{reconcile.OutcomeOverridden: 3, reconcile.OutcomeInserted: 1},
		Evicted: []reconcile.Eviction{
			{Reason: reconcile.EvictStale}, {Reason: reconcile.EvictArrived}, {Reason: reconcile.EvictArrived},
		},
		Duration: time.Millisecond,
	})
	require.NoError(t, err)

	assert.Equal(t, "metrics", c.Name())
	assert.Equal(t, 3.0, testutil.ToFloat64(c.MergeOutcomes.WithLabelValues("oebb", "overridden")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.MergeOutcomes.WithLabelValues("oebb", "inserted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Evictions.WithLabelValues("arrived")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Evictions.WithLabelValues("stale")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.RosterSize))
	assert.Equal(t, 1736930000.0, testutil.ToFloat64(c.LastPublish))
}

func TestCollector_Events(t *testing.T) {
	c := NewCollector()
	c.EventPublished(nil)
	c.EventPublished(nil)
	c.EventPublished(errors.New("nope"))
	c.EventsConnectedSet(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.EventsPublished))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.EventErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.EventsConnected))

	c.EventsConnectedSet(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(c.EventsConnected))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.ObservePoll("mav", 5, nil, time.Second)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `vonatinfo_feed_candidates{feed="mav"} 5`)
	assert.Contains(t, string(body), "go_goroutines")
}
