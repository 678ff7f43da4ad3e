// Package geo computes great-circle distances and bearings and derives
// motion for vehicles whose feed does not report heading or speed.
package geo

import (
	"math"
	"sync"
)

const earthRadiusMeters = 6371000.0

func toRad(deg float64) float64 { return deg * math.Pi / 180.0 }

// Haversine returns the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	φ1 := toRad(lat1)
	φ2 := toRad(lat2)
	dφ := toRad(lat2 - lat1)
	dλ := toRad(lon2 - lon1)
	a := math.Sin(dφ/2)*math.Sin(dφ/2) + math.Cos(φ1)*math.Cos(φ2)*math.Sin(dλ/2)*math.Sin(dλ/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// Bearing returns the initial great-circle bearing from the first point to
// the second, in degrees clockwise from north within [0, 360).
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	φ1 := toRad(lat1)
	φ2 := toRad(lat2)
	dλ := toRad(lon2 - lon1)
	y := math.Sin(dλ) * math.Cos(φ2)
	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(dλ)
	θ := math.Atan2(y, x) * 180.0 / math.Pi
	return math.Mod(θ+360.0, 360.0)
}

// Fix is one observed position of a vehicle.
type Fix struct {
	Lat  float64
	Lon  float64
	Unix int64
}

// Motion is the derived movement between two fixes. Heading is nil when it
// cannot be determined.
type Motion struct {
	Heading *float64
	// Speed in km/h.
	Speed float64
}

// Tracker remembers the previous fix per vehicle identity.
type Tracker struct {
	mu   sync.Mutex
	last map[string]Fix
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{last: make(map[string]Fix)}
}

// Observe records fix for id and returns the motion since the previous fix.
// Without a prior fix, or when the position did not change, the result has
// zero speed and no heading.
func (t *Tracker) Observe(id string, fix Fix) Motion {
	t.mu.Lock()
	prev, ok := t.last[id]
	if ok && prev.Lat == fix.Lat && prev.Lon == fix.Lon {
		t.mu.Unlock()
		return Motion{}
	}
	t.last[id] = fix
	t.mu.Unlock()

	if !ok {
		return Motion{}
	}

	heading := Bearing(prev.Lat, prev.Lon, fix.Lat, fix.Lon)
	m := Motion{Heading: &heading}
	if dt := fix.Unix - prev.Unix; dt > 0 {
		m.Speed = Haversine(prev.Lat, prev.Lon, fix.Lat, fix.Lon) / float64(dt) * 3.6
	}
	return m
}

// Forget drops every identity not present in keep.
func (t *Tracker) Forget(keep map[string]struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id := range t.last {
		if _, ok := keep[id]; !ok {
			delete(t.last, id)
		}
	}
}

// Len reports how many identities are tracked.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.last)
}
