// Package oebb reads railjet positions from the ÖBB HAFAS gateway.
//
// HAFAS knows where the railjets crossing into Hungary are even when the
// domestic feed has lost them, so this feed is authoritative for the trains
// it reports. Positions carry no heading or speed; both are derived from
// consecutive fixes. Schedules come from the timetable package by train
// number.
package oebb
