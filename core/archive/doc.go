// Package archive keeps a history of finished trips.
//
// Every record the sweeper evicts is written to the trip_archive table
// together with the reason it left the roster.
package archive
