// Package logger builds the zap logger shared by the pollers, the
// reconciliation engine and the HTTP server.
//
// Level "debug" selects zap's development preset; every other level uses the
// production preset. Format chooses json or colored console output. When File
// is set, entries are also written as JSON to a lumberjack-rotated file.
//
// WithRayID tags a logger with the ray id of the current Fiber request:
//
//	l := logger.WithRayID(log, c)
//	l.Warn("Trip lookup failed", zap.String("trip", key))
package logger
