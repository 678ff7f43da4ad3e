package oebb

import "time"

// Config holds configuration for the ÖBB HAFAS position feed.
type Config struct {
	// Enabled turns the feed on.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// URL is the HAFAS mgate endpoint.
	URL string `mapstructure:"url" default:"https://fahrplan.oebb.at/gate" validate:"omitempty,url"`
	// Interval between polls.
	Interval time.Duration `mapstructure:"interval" default:"60s"`
	// Timeout bounds one poll request.
	Timeout time.Duration `mapstructure:"timeout" default:"15s"`
	// Category selects journeys whose product category contains this text.
	Category string `mapstructure:"category" default:"railjet"`
	// ProductFilter is the HAFAS PROD filter value.
	ProductFilter string `mapstructure:"product_filter" default:"4101"`
	// AID authenticates the web client.
	AID string `mapstructure:"aid" default:"5vHavmuWPWIfetEe"`
	// Rectangle of the query in HAFAS micro-degrees.
	LowerLeftX  float64 `mapstructure:"ll_x" default:"17104947.509765629"`
	LowerLeftY  float64 `mapstructure:"ll_y" default:"47407892.06010505"`
	UpperRightX float64 `mapstructure:"ur_x" default:"19135605.468750004"`
	UpperRightY float64 `mapstructure:"ur_y" default:"47948232.33587184"`
}
