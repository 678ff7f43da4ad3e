// Package utils provides small conversion helpers shared by the feed adapters.
//
// Upstream providers describe time in different ways: compact "HHMMSS" clock
// strings, day-prefixed "DDHHMMSS" strings and ISO-8601 timestamps. The helpers
// here turn all of them into seconds since local midnight so that the rest of
// the pipeline only ever compares plain integers.
package utils
