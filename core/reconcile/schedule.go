package reconcile

const (
	secondsPerDay = 86400
	halfDay       = secondsPerDay / 2
)

// UnwrapSchedule returns stops with times made monotonic across midnight.
// Walking in travel order, any time that drops by more than twelve hours
// relative to the previous one starts a new day and receives another 86400
// seconds, as do all following times. The input is not modified.
func UnwrapSchedule(stops []StopTime) []StopTime {
	if len(stops) == 0 {
		return nil
	}

	out := make([]StopTime, len(stops))
	offset := 0
	prev := -1
	bump := func(t int) int {
		if prev >= 0 && t+offset < prev-halfDay {
			offset += secondsPerDay
		}
		t += offset
		prev = t
		return t
	}

	for i, st := range stops {
		out[i] = st
		out[i].ScheduledArrival = bump(st.ScheduledArrival)
		out[i].ScheduledDeparture = bump(st.ScheduledDeparture)
	}
	return out
}

// FinalArrivalOf returns the last stop's scheduled arrival plus its delay,
// or nil for an empty schedule.
func FinalArrivalOf(stops []StopTime) *int {
	if len(stops) == 0 {
		return nil
	}
	last := stops[len(stops)-1]
	t := last.ScheduledArrival
	if last.ArrivalDelay != nil {
		t += *last.ArrivalDelay
	}
	return &t
}

// Finalize unwraps the schedule and derives FinalArrival from it. When the
// schedule is empty, fallback (which may be nil) becomes the final arrival.
func (r *TripRecord) Finalize(fallback *int) {
	r.Schedule = UnwrapSchedule(r.Schedule)
	if fa := FinalArrivalOf(r.Schedule); fa != nil {
		r.FinalArrival = fa
		return
	}
	if fallback != nil {
		v := *fallback
		r.FinalArrival = &v
		return
	}
	r.FinalArrival = nil
}

// SpansMidnight reports whether the trip's timeline extends into the next day.
func (r *TripRecord) SpansMidnight() bool {
	if r.FinalArrival != nil && *r.FinalArrival >= secondsPerDay {
		return true
	}
	n := len(r.Schedule)
	return n > 0 && r.Schedule[n-1].ScheduledArrival >= secondsPerDay
}

// Clock maps the wall-clock seconds of day onto the trip's own timeline.
// For a trip that runs past midnight, the wall clock is read as the next
// day until it reaches the middle of the gap between the trip's arrival and
// its departure on the following day. Without a schedule the morning half
// of the day is shifted instead.
func (r *TripRecord) Clock(nowOfDay int) int {
	if !r.SpansMidnight() {
		return nowOfDay
	}
	if n := len(r.Schedule); n > 0 {
		start := r.Schedule[0].ScheduledDeparture
		end := r.Schedule[n-1].ScheduledArrival
		if r.FinalArrival != nil && *r.FinalArrival > end {
			end = *r.FinalArrival
		}
		next := nowOfDay + secondsPerDay
		if 2*next <= end+start+secondsPerDay {
			return next
		}
		return nowOfDay
	}
	if nowOfDay < halfDay {
		return nowOfDay + secondsPerDay
	}
	return nowOfDay
}
