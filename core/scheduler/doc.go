// Package scheduler runs periodic jobs with cycle-overlap protection.
//
// Each Task owns one ticker. When a tick arrives while the previous run has
// not finished, the tick is dropped and counted instead of being queued, so
// a slow upstream never causes runs to pile up.
package scheduler
