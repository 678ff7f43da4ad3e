package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrapSchedule_MidnightRollover(t *testing.T) {
	stops := []StopTime{
		{Name: "Budapest-Keleti", ScheduledArrival: 85800, ScheduledDeparture: 85800},
		{Name: "Szolnok", ScheduledArrival: 86100, ScheduledDeparture: 86160},
		{Name: "Cegléd", ScheduledArrival: 300, ScheduledDeparture: 360},
		{Name: "Kecskemét", ScheduledArrival: 2400, ScheduledDeparture: 2400},
	}

	out := UnwrapSchedule(stops)

	require.Len(t, out, 4)
	assert.Equal(t, 85800, out[0].ScheduledDeparture)
	assert.Equal(t, 86700, out[2].ScheduledArrival)
	assert.Equal(t, 88800, out[3].ScheduledArrival)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i].ScheduledArrival, out[i-1].ScheduledDeparture)
	}
	// Input untouched.
	assert.Equal(t, 2400, stops[3].ScheduledArrival)
}

func TestUnwrapSchedule_SameDayUnchanged(t *testing.T) {
	stops := []StopTime{
		{Name: "A", ScheduledArrival: 3600, ScheduledDeparture: 3600},
		{Name: "B", ScheduledArrival: 7200, ScheduledDeparture: 7260},
	}
	assert.Equal(t, stops, UnwrapSchedule(stops))
	assert.Nil(t, UnwrapSchedule(nil))
}

func TestTripRecord_FinalizeOvernight(t *testing.T) {
	r := TripRecord{
		Key: "1 IC",
		Schedule: []StopTime{
			{Name: "A", ScheduledArrival: 85800, ScheduledDeparture: 85800},
			{Name: "B", ScheduledArrival: 2400, ScheduledDeparture: 2400},
		},
	}
	r.Finalize(nil)

	require.NotNil(t, r.FinalArrival)
	assert.Equal(t, 88800, *r.FinalArrival)
	assert.True(t, r.SpansMidnight())
	// At 00:10 the trip clock reads 24:10.
	assert.Equal(t, 87000, r.Clock(600))
	// At 23:55 it is the same day.
	assert.Equal(t, 86100, r.Clock(86100))
}

func TestTripRecord_FinalizeUsesDelayAndFallback(t *testing.T) {
	r := TripRecord{Schedule: []StopTime{
		{Name: "A", ScheduledArrival: 1000, ScheduledDeparture: 1000},
		{Name: "B", ScheduledArrival: 5000, ArrivalDelay: intp(240), ScheduledDeparture: 5000},
	}}
	r.Finalize(intp(1))
	assert.Equal(t, 5240, *r.FinalArrival)

	empty := TripRecord{}
	empty.Finalize(intp(7000))
	assert.Equal(t, 7000, *empty.FinalArrival)

	none := TripRecord{FinalArrival: intp(3)}
	none.Finalize(nil)
	assert.Nil(t, none.FinalArrival)
}

func TestTripRecord_ClockWithoutSchedule(t *testing.T) {
	r := TripRecord{FinalArrival: intp(90000)}
	assert.Equal(t, 86400+600, r.Clock(600))
	assert.Equal(t, 80000, r.Clock(80000))

	day := TripRecord{FinalArrival: intp(5000)}
	assert.Equal(t, 600, day.Clock(600))
}

func TestSweep_OvernightTripNotEvictedAfterMidnight(t *testing.T) {
	s := NewStore()
	r := trip("night", 1000, nil)
	r.Schedule = []StopTime{
		{Name: "A", ScheduledArrival: 85800, ScheduledDeparture: 85800},
		{Name: "B", ScheduledArrival: 2400, ScheduledDeparture: 2400},
	}
	r.Finalize(nil)
	s.Merge(Batch{Source: "mav", Candidates: []TripRecord{r}}, 600)

	// Before midnight the unwrapped final arrival is still ahead.
	assert.Empty(t, s.Sweep(1000+120, 86100))
	// Shortly after midnight the trip is still under way.
	assert.Empty(t, s.Sweep(1000+120, 600))
	// Inside the grace window after the 00:40 arrival.
	assert.Empty(t, s.Sweep(1000+120, 2400+60))

	evicted := s.Sweep(1000+120, 2400+120)
	require.Len(t, evicted, 1)
	assert.Equal(t, EvictArrived, evicted[0].Reason)
}

func TestTripRecord_ClockLongOvernightTrip(t *testing.T) {
	// Leaves at 10:00 and arrives at 01:00 the next morning.
	r := trip("long", 1000, nil)
	r.Schedule = []StopTime{
		{Name: "A", ScheduledArrival: 36000, ScheduledDeparture: 36000},
		{Name: "B", ScheduledArrival: 80000, ScheduledDeparture: 80400},
		{Name: "C", ScheduledArrival: 3600, ScheduledDeparture: 3600},
	}
	r.Finalize(nil)
	require.Equal(t, 90000, *r.FinalArrival)

	assert.Equal(t, 36000, r.Clock(36000))
	assert.Equal(t, 86100, r.Clock(86100))
	// 00:50 is the next day on the trip's timeline.
	assert.Equal(t, 89400, r.Clock(3000))
	// Until the middle of the gap before the next departure.
	assert.Equal(t, 86400+19800, r.Clock(19800))
	assert.Equal(t, 19801, r.Clock(19801))

	s := NewStore()
	s.Merge(Batch{Source: "mav", Candidates: []TripRecord{r}}, 36000)
	assert.Empty(t, s.Sweep(1000+120, 3000))
	evicted := s.Sweep(1000+120, 3600+120)
	require.Len(t, evicted, 1)
	assert.Equal(t, EvictArrived, evicted[0].Reason)
}
