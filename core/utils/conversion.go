package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SecondsPerDay is the length of a service day in seconds.
const SecondsPerDay = 86400

// ErrInvalidClock is returned when a compact clock string cannot be parsed.
var ErrInvalidClock = errors.New("invalid clock string")

// HHMMSSToSeconds converts a compact clock string into seconds since midnight.
// It accepts "HHMMSS" and the day-prefixed "DDHHMMSS" form, where DD counts
// whole days after the service date.
func HHMMSSToSeconds(s string) (int, error) {
	s = strings.TrimSpace(s)
	days := 0
	switch len(s) {
	case 6:
	case 8:
		d, err := strconv.Atoi(s[:2])
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		days = d
		s = s[2:]
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	h, errH := strconv.Atoi(s[0:2])
	m, errM := strconv.Atoi(s[2:4])
	sec, errS := strconv.Atoi(s[4:6])
	if errH != nil || errM != nil || errS != nil || m > 59 || sec > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	return days*SecondsPerDay + h*3600 + m*60 + sec, nil
}

// SecondsOfDay returns the seconds elapsed since local midnight of t in loc.
func SecondsOfDay(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*3600 + local.Minute()*60 + local.Second()
}

// ISOToSecondsOfDay parses an ISO-8601 timestamp and returns the seconds
// since local midnight in loc. Timestamps without a zone are read as UTC.
func ISOToSecondsOfDay(s string, loc *time.Location) (int, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		var errLocal error
		t, errLocal = time.Parse("2006-01-02T15:04:05.999999999", s)
		if errLocal != nil {
			return 0, fmt.Errorf("parse timestamp %q: %w", s, err)
		}
	}
	return SecondsOfDay(t, loc), nil
}

// OptionalHHMMSS is HHMMSSToSeconds for optional upstream fields.
// Empty or unparsable input yields nil.
func OptionalHHMMSS(s string) *int {
	if s == "" {
		return nil
	}
	v, err := HHMMSSToSeconds(s)
	if err != nil {
		return nil
	}
	return &v
}

// OptionalISO is ISOToSecondsOfDay for optional upstream fields.
func OptionalISO(s *string, loc *time.Location) *int {
	if s == nil || *s == "" {
		return nil
	}
	v, err := ISOToSecondsOfDay(*s, loc)
	if err != nil {
		return nil
	}
	return &v
}

// Delay returns actual minus scheduled, or nil when either side is unknown.
// Differences beyond half a day are taken to cross midnight.
func Delay(scheduled, actual *int) *int {
	if scheduled == nil || actual == nil {
		return nil
	}
	d := *actual - *scheduled
	for d > SecondsPerDay/2 {
		d -= SecondsPerDay
	}
	for d <= -SecondsPerDay/2 {
		d += SecondsPerDay
	}
	return &d
}

// LeadingNumber returns the first run of digits in s, or "" if there is none.
// "RJX 63" yields "63".
func LeadingNumber(s string) string {
	start := strings.IndexAny(s, "0123456789")
	if start < 0 {
		return ""
	}
	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[start:end]
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Deref returns *p, or def when p is nil.
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
