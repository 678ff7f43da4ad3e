package events

import "time"

// Config holds configuration for the NATS event stream.
type Config struct {
	// Enabled turns publishing on.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// URL of the NATS server.
	URL string `mapstructure:"url" default:"nats://127.0.0.1:4222" validate:"required"`
	// SubjectPrefix is prepended to every subject.
	SubjectPrefix string `mapstructure:"subject_prefix" default:"vonatinfo" validate:"required"`
	// ConnectWait bounds the initial connection attempts.
	ConnectWait time.Duration `mapstructure:"connect_wait" default:"30s"`
}
