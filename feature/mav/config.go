package mav

import "time"

// Config holds configuration for the MÁV vehicle-position feed.
type Config struct {
	// Enabled turns the feed on.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// URL is the OTP GraphQL endpoint.
	URL string `mapstructure:"url" default:"https://mavplusz.hu//otp2-backend/otp/routers/default/index/graphql" validate:"omitempty,url"`
	// Interval between polls.
	Interval time.Duration `mapstructure:"interval" default:"15s"`
	// Timeout bounds one poll request.
	Timeout time.Duration `mapstructure:"timeout" default:"10s"`
	// UserAgent is sent with every request. The upstream rejects the Go default.
	UserAgent string `mapstructure:"user_agent" default:"Mozilla/5.0"`
	// Bounding box of the vehicle query.
	SwLat float64 `mapstructure:"sw_lat" default:"45.7457"`
	SwLon float64 `mapstructure:"sw_lon" default:"16.2103"`
	NeLat float64 `mapstructure:"ne_lat" default:"48.5637"`
	NeLon float64 `mapstructure:"ne_lon" default:"22.9067"`
	// Modes limits the transport modes returned.
	Modes []string `mapstructure:"modes" default:"RAIL,TRAMTRAIN"`
}
