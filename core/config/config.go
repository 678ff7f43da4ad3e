package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"vonatinfo/core/database"
	"vonatinfo/core/events"
	"vonatinfo/core/logger"
	"vonatinfo/core/metrics"
	"vonatinfo/core/mirror"
	"vonatinfo/core/server"
	"vonatinfo/core/storage"
	"vonatinfo/feature/mav"
	"vonatinfo/feature/oebb"
	"vonatinfo/feature/timetable"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Feeds groups the upstream feed settings.
type Feeds struct {
	// Mav is the MÁV OTP position feed.
	Mav mav.Config `mapstructure:"mav"`
	// Oebb is the ÖBB HAFAS position feed.
	Oebb oebb.Config `mapstructure:"oebb"`
	// Timetable is the MÁV schedule lookup used to enrich ÖBB trains.
	Timetable timetable.Config `mapstructure:"timetable"`
}

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage mirror.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the trip archive.
	Database database.Config `mapstructure:"database"`
	// Mirror holds configuration for the roster files.
	Mirror mirror.Config `mapstructure:"mirror"`
	// Metrics holds configuration for the Prometheus endpoint.
	Metrics metrics.Config `mapstructure:"metrics"`
	// Events holds configuration for the NATS event stream.
	Events events.Config `mapstructure:"nats"`
	// Feeds holds the upstream feeds.
	Feeds Feeds `mapstructure:"feeds"`
	// Timezone of the service day.
	Timezone string `mapstructure:"timezone" default:"Europe/Budapest" validate:"required,timezone"`
}

// Location returns the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// LoadConfig loads configuration from environment variables, a .env file
// and an optional config file in path.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	v.SetConfigName("config")
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
