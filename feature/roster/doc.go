// Package roster serves the published train roster over HTTP.
//
// Every handler reads the current snapshot once and answers from it, so a
// response never mixes two reconciliation cycles.
package roster
