package timetable

import "time"

// Config holds configuration for the MÁV timetable lookup.
type Config struct {
	// URL is the GetTimetable endpoint.
	URL string `mapstructure:"url" default:"https://jegy-a.mav.hu/IK_API_PROD/api/InformationApi/GetTimetable" validate:"required,url"`
	// SessionID is sent in the usersessionid header.
	SessionID string `mapstructure:"session_id" default:"a2"`
	// Timeout bounds every lookup request.
	Timeout time.Duration `mapstructure:"timeout" default:"10s"`
	// CacheTTL keeps successful lookups per train number. Zero disables caching.
	CacheTTL time.Duration `mapstructure:"cache_ttl" default:"30s"`
	// Concurrency limits parallel lookups within one batch.
	Concurrency int `mapstructure:"concurrency" default:"8" validate:"gte=1"`
}
