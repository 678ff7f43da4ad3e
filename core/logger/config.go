package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum level (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info" validate:"oneof=debug info warn error"`
	// Format is the encoding (console, json).
	Format string `mapstructure:"format" default:"console" validate:"oneof=console json"`
	// File enables an additional rotating JSON log file when set.
	File string `mapstructure:"file" default:""`
	// MaxSizeMB is the size at which the log file is rotated.
	MaxSizeMB int `mapstructure:"max_size_mb" default:"50" validate:"gte=0"`
	// MaxBackups is the number of rotated files to keep.
	MaxBackups int `mapstructure:"max_backups" default:"5" validate:"gte=0"`
	// MaxAgeDays is how long rotated files are kept.
	MaxAgeDays int `mapstructure:"max_age_days" default:"14" validate:"gte=0"`
	// Compress gzips rotated files.
	Compress bool `mapstructure:"compress" default:"true"`
}
