// Package mav polls the MÁV OTP GraphQL endpoint for live train positions.
//
// The feed covers the whole Hungarian network at a short cadence and is
// never authoritative: its records only replace stored ones when they are
// newer or further along.
package mav
