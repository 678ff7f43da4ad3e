// Package feeds drives the upstream adapters.
//
// A Runner polls one reconcile.Adapter on its own scheduler.Task and applies
// every result to the shared engine. Upstream failures become empty batches,
// so the sweeper and publisher still run and the visible roster degrades to
// stale-but-present data instead of disappearing. The package also holds the
// JSON-over-HTTP helper shared by the adapters.
package feeds
