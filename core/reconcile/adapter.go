package reconcile

import "context"

// Adapter polls one upstream provider and normalizes its payload into
// candidate TripRecords.
type Adapter interface {
	// Name returns the unique source name (e.g., "mav", "oebb").
	Name() string

	// Authoritative reports whether this source fully owns the vehicles it
	// reports. Its candidates bypass the precedence check during merge.
	Authoritative() bool

	// Poll performs one upstream request. On failure it returns the error
	// and no candidates; callers treat that as an empty batch.
	// Individual malformed entries are dropped, not reported as errors.
	Poll(ctx context.Context) ([]TripRecord, error)
}

// Sink receives every completed cycle after its snapshot was published.
type Sink interface {
	// Name identifies the sink in logs.
	Name() string

	// OnCycle handles one cycle. Errors are logged by the engine and never
	// affect the published snapshot.
	OnCycle(ctx context.Context, c Cycle) error
}
