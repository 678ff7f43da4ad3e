// Package events streams roster changes to NATS.
//
// Every cycle publishes the light roster on "<prefix>.light"; each evicted
// trip is announced on "<prefix>.evicted.<trip>".
package events
