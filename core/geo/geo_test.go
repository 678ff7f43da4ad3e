package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversine(t *testing.T) {
	// Budapest-Keleti to Wien Hbf is roughly 215 km as the crow flies.
	d := Haversine(47.5003, 19.0839, 48.1851, 16.3767)
	assert.InDelta(t, 215000, d, 5000)
	assert.Zero(t, Haversine(47.5, 19.0, 47.5, 19.0))
}

func TestBearing(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
	}{
		{"North", 47.0, 19.0, 48.0, 19.0, 0},
		{"South", 48.0, 19.0, 47.0, 19.0, 180},
		{"East", 0, 10, 0, 11, 90},
		{"West", 0, 11, 0, 10, 270},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Bearing(tt.lat1, tt.lon1, tt.lat2, tt.lon2), 0.01)
		})
	}
}

func TestTracker_Observe(t *testing.T) {
	tr := NewTracker()

	first := tr.Observe("rj-63", Fix{Lat: 47.0, Lon: 19.0, Unix: 1000})
	assert.Nil(t, first.Heading)
	assert.Zero(t, first.Speed)

	same := tr.Observe("rj-63", Fix{Lat: 47.0, Lon: 19.0, Unix: 1060})
	assert.Nil(t, same.Heading)
	assert.Zero(t, same.Speed)

	moved := tr.Observe("rj-63", Fix{Lat: 47.01, Lon: 19.0, Unix: 1120})
	require.NotNil(t, moved.Heading)
	assert.InDelta(t, 0, *moved.Heading, 0.01)
	// 1.11 km in 120 s from the first fix is about 33 km/h.
	assert.InDelta(t, 33.4, moved.Speed, 1.0)

	other := tr.Observe("rj-65", Fix{Lat: 48.0, Lon: 16.0, Unix: 1120})
	assert.Nil(t, other.Heading)
	assert.Equal(t, 2, tr.Len())

	tr.Forget(map[string]struct{}{"rj-65": {}})
	assert.Equal(t, 1, tr.Len())
}
