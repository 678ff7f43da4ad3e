package timetable

import (
	"sync"
	"time"

	"vonatinfo/core/reconcile"

	"golang.org/x/sync/singleflight"
)

// cachedSchedule is one successful lookup.
type cachedSchedule struct {
	stops []reconcile.StopTime
	built time.Time
}

// scheduleCache holds recent lookups keyed by train number. Concurrent
// lookups for the same number share one upstream request.
type scheduleCache struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]cachedSchedule
	sf      singleflight.Group
}

func newScheduleCache(ttl time.Duration, now func() time.Time) *scheduleCache {
	return &scheduleCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cachedSchedule),
	}
}

func (c *scheduleCache) fresh(e cachedSchedule) bool {
	return c.ttl > 0 && c.now().Sub(e.built) <= c.ttl
}

// getOrLoad returns the cached schedule for key or calls load. Failures are
// returned to every waiting caller and are not cached.
func (c *scheduleCache) getOrLoad(key string, load func() ([]reconcile.StopTime, error)) ([]reconcile.StopTime, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.fresh(e) {
		return e.stops, nil
	}

	v, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Another caller may have filled the entry while we waited.
		c.mu.RLock()
		e, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && c.fresh(e) {
			return e.stops, nil
		}

		stops, err := load()
		if err != nil {
			return nil, err
		}

		if c.ttl > 0 {
			c.mu.Lock()
			c.entries[key] = cachedSchedule{stops: stops, built: c.now()}
			c.mu.Unlock()
		}
		return stops, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]reconcile.StopTime), nil
}

// prune drops expired entries.
func (c *scheduleCache) prune() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if !c.fresh(e) {
			delete(c.entries, k)
		}
	}
}

func (c *scheduleCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
