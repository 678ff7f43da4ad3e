// Package reconcile merges live train positions from several upstream
// providers into one roster keyed by trip short name.
//
// # Architecture
//
// 1. Store: the keyed set of TripRecords. Merge applies the precedence rules
//    to each candidate of a batch; Sweep evicts quiet or terminated trips.
//
// 2. Publisher: holds the current immutable Snapshot behind an atomic
//    pointer. Each cycle deep-copies the store into a fresh snapshot and
//    swaps it in, so readers never need a lock.
//
// 3. Engine: the single writer. Apply runs merge, sweep and publish under one
//    mutex and queues the cycle for the registered sinks (mirror files,
//    archive, event stream, metrics). Each sink drains its queue on its own
//    goroutine with a bounded OnCycle call; Close waits for the queues.
//
// # Precedence
//
// For an existing record, a candidate from an authoritative source always
// replaces it. Otherwise the candidate is rejected if its final arrival has
// passed while the stored one has not; it replaces the record when it is
// newer, or when both final arrivals are known and the candidate's is not
// earlier.
//
// # Time
//
// Schedule times are seconds since local midnight. Schedules that cross
// midnight are unwrapped so that times keep increasing past 86400, and
// TripRecord.Clock maps the wall clock onto that extended timeline.
//
// # Usage
//
//	engine := reconcile.NewEngine(logger, loc, reconcile.WithSinks(mirrorSink))
//	cycle, err := engine.Apply(ctx, reconcile.Batch{Source: "mav", Candidates: records})
//	trains := engine.Publisher().LightRoster()
//	defer engine.Close()
package reconcile
