// Package metrics exposes the service's Prometheus metrics.
//
// The Collector owns a private registry. It receives feed observations
// from the feed runners, every reconciliation cycle as an engine sink and
// publish outcomes from the event stream.
package metrics
