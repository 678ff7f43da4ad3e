package reconcile

import (
	"sort"
	"time"
)

const (
	// StaleCutoff is the maximum sample age before a record is evicted.
	StaleCutoff int64 = 600
	// ArrivalGrace is the window after the final arrival, and the required
	// sample age, before a terminated trip is evicted.
	ArrivalGrace = 60
)

// Store holds the canonical TripRecords keyed by trip short name. It is not
// safe for concurrent use; the Engine serializes access.
type Store struct {
	trips map[string]TripRecord
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{trips: make(map[string]TripRecord)}
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.trips)
}

// Get returns the record stored under key.
func (s *Store) Get(key string) (TripRecord, bool) {
	r, ok := s.trips[key]
	return r, ok
}

// Records returns all records sorted by key.
func (s *Store) Records() []TripRecord {
	out := make([]TripRecord, 0, len(s.trips))
	for _, r := range s.trips {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out
}

// Merge folds every candidate of batch into the store. nowOfDay is the wall
// clock in seconds since local midnight. Candidates without a key are
// skipped without affecting the rest of the batch.
func (s *Store) Merge(batch Batch, nowOfDay int) MergeStats {
	stats := make(MergeStats)
	for _, cand := range batch.Candidates {
		if cand.Key == "" {
			stats[OutcomeSkipped]++
			continue
		}

		existing, ok := s.trips[cand.Key]
		if !ok {
			s.trips[cand.Key] = cand
			stats[OutcomeInserted]++
			continue
		}

		outcome := Decide(existing, cand, batch.Authoritative, nowOfDay)
		stats[outcome]++
		if outcome == OutcomeReplaced || outcome == OutcomeOverridden {
			if existing.ObservedAt > cand.ObservedAt {
				cand.ObservedAt = existing.ObservedAt
			}
			s.trips[cand.Key] = cand
		}
	}
	return stats
}

// Decide applies the precedence rules to a candidate for an existing record.
//
// An authoritative source always wins. Otherwise a candidate whose final
// arrival already passed is rejected while the stored trip is still under
// way. Remaining candidates win when they are newer or, with both final
// arrivals known, when they are at least as far along the journey.
func Decide(existing, cand TripRecord, authoritative bool, nowOfDay int) Outcome {
	if authoritative {
		return OutcomeOverridden
	}

	finalOld, finalNew := existing.FinalArrival, cand.FinalArrival
	bothKnown := finalOld != nil && finalNew != nil

	// Each final arrival is compared with the wall clock on its own
	// trip's timeline, since only one of them may extend past midnight.
	if bothKnown && *finalNew < cand.Clock(nowOfDay) && *finalOld > existing.Clock(nowOfDay) {
		return OutcomeRejected
	}
	if cand.ObservedAt > existing.ObservedAt || (bothKnown && *finalNew >= *finalOld) {
		return OutcomeReplaced
	}
	return OutcomeKept
}

// Sweep removes records that went quiet for longer than StaleCutoff, and
// records whose final arrival plus ArrivalGrace has passed without a sample
// inside the grace window. now is epoch seconds, nowOfDay the wall clock in
// seconds since local midnight.
func (s *Store) Sweep(now int64, nowOfDay int) []Eviction {
	var evicted []Eviction
	at := time.Unix(now, 0)

	for key, r := range s.trips {
		age := now - r.ObservedAt
		if age > StaleCutoff {
			evicted = append(evicted, Eviction{Record: r, Reason: EvictStale, At: at})
			delete(s.trips, key)
			continue
		}
		if r.FinalArrival != nil && r.Clock(nowOfDay) > *r.FinalArrival+ArrivalGrace && age > ArrivalGrace {
			evicted = append(evicted, Eviction{Record: r, Reason: EvictArrived, At: at})
			delete(s.trips, key)
		}
	}

	sort.Slice(evicted, func(i, j int) bool {
		return evicted[i].Record.Key < evicted[j].Record.Key
	})
	return evicted
}
