// Package timetable enriches trains with their stop-by-stop schedule from
// the MÁV information API.
//
// Lookups are keyed by the bare train number. Enrich fans the lookups of one
// batch out over a bounded goroutine pool; a short-lived cache with
// singleflight keeps repeated polls of the same train from hitting the
// upstream again. Failed lookups are never cached.
package timetable
