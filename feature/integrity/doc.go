// Package integrity checks the infrastructure around the roster.
//
// # Checks Provided
//
//   - Mirror: timetables.json and trains.json exist in the mirror directory
//     and were rewritten recently.
//   - Storage: the bucket exists and holds both mirror documents.
//   - Archive: the trip_archive table matches the TripArchive model.
//
// Checks for components that are not configured report "disabled".
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/mirror : Runs the mirror check.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
//   - GET /integrity/archive : Runs the archive schema check (supports ?fix=true).
package integrity
