package mirror

// Config holds configuration for the roster mirror files.
type Config struct {
	// Enabled writes the mirror files after every cycle.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Dir receives timetables.json and trains.json.
	Dir string `mapstructure:"dir" default:"public" validate:"required_if=Enabled true"`
}
