package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"vonatinfo/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type published struct {
	subject string
	data    []byte
}

type fakeConn struct {
	msgs   []published
	failOn string
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if subject == f.failOn {
		return errors.New("broken pipe")
	}
	f.msgs = append(f.msgs, published{subject: subject, data: data})
	return nil
}

type fakeMetrics struct {
	ok, failed int
}

func (m *fakeMetrics) EventPublished(err error) {
	if err != nil {
		m.failed++
		return
	}
	m.ok++
}

func (m *fakeMetrics) EventsConnectedSet(bool) {}

func testCycle(t *testing.T) reconcile.Cycle {
	pub := reconcile.NewPublisher()
	snap, err := pub.Publish([]reconcile.TripRecord{
		{Key: "63 railjet xpress", Position: reconcile.VehiclePosition{Source: "oebb", VehicleID: "railjet", Lat: 47.6, Lon: 17.6}, ObservedAt: 1000},
	}, time.Unix(1000, 0))
	require.NoError(t, err)

	return reconcile.Cycle{
		Source:   "oebb",
		Snapshot: snap,
		Evicted: []reconcile.Eviction{{
			Record: reconcile.TripRecord{Key: "7012", Position: reconcile.VehiclePosition{Source: "mav", VehicleID: "v1"}},
			Reason: reconcile.EvictArrived,
			At:     time.Unix(1000, 0),
		}},
	}
}

func TestSink_OnCycle(t *testing.T) {
	conn := &fakeConn{}
	m := &fakeMetrics{}
	sink := NewSink(conn, "vonatinfo.", zap.NewNop(), m)

	require.NoError(t, sink.OnCycle(context.Background(), testCycle(t)))
	require.Len(t, conn.msgs, 2)
	assert.Equal(t, 2, m.ok)

	assert.Equal(t, "vonatinfo.light", conn.msgs[0].subject)
	var light LightMessage
	require.NoError(t, json.Unmarshal(conn.msgs[0].data, &light))
	assert.Equal(t, uint64(1), light.Seq)
	assert.Equal(t, "oebb", light.Source)
	require.Len(t, light.Data, 1)
	assert.Equal(t, "63 railjet xpress", light.Data[0].TripShortName)

	assert.Equal(t, "vonatinfo.evicted.7012", conn.msgs[1].subject)
	var ev EvictionMessage
	require.NoError(t, json.Unmarshal(conn.msgs[1].data, &ev))
	assert.Equal(t, reconcile.EvictArrived, ev.Reason)
	assert.Equal(t, "mav", ev.Source)
	assert.Equal(t, "v1", ev.Last.VehicleID)
}

func TestSink_OnCycleReportsFailures(t *testing.T) {
	conn := &fakeConn{failOn: "vonatinfo.light"}
	m := &fakeMetrics{}
	sink := NewSink(conn, "vonatinfo", zap.NewNop(), m)

	err := sink.OnCycle(context.Background(), testCycle(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vonatinfo.light")
	// The eviction is still published.
	require.Len(t, conn.msgs, 1)
	assert.Equal(t, 1, m.failed)
	assert.Equal(t, 1, m.ok)
}

func TestSubjectToken(t *testing.T) {
	tests := map[string]string{
		"63 railjet xpress": "63_railjet_xpress",
		"a.b>c*d/e":         "a_b_c_d_e",
		"  ":                "_",
		"7012":              "7012",
	}
	for in, want := range tests {
		assert.Equal(t, want, SubjectToken(in), in)
	}
}
