package reconcile

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jinzhu/copier"
)

// Snapshot is an immutable view of the store after one completed cycle.
// Callers must not modify the slices it returns.
type Snapshot struct {
	full        []TripRecord
	light       []LightRecord
	index       map[string]int
	publishedAt time.Time
	seq         uint64
}

func newSnapshot(records []TripRecord, at time.Time, seq uint64) *Snapshot {
	s := &Snapshot{
		full:        records,
		light:       make([]LightRecord, len(records)),
		index:       make(map[string]int, len(records)),
		publishedAt: at,
		seq:         seq,
	}
	for i := range records {
		s.light[i] = records[i].Light()
		s.index[records[i].Key] = i
	}
	return s
}

// FullRoster returns every record sorted by key.
func (s *Snapshot) FullRoster() []TripRecord { return s.full }

// LightRoster returns the flattened projection of every record.
func (s *Snapshot) LightRoster() []LightRecord { return s.light }

// ByKey returns the record for a trip short name.
func (s *Snapshot) ByKey(key string) (TripRecord, bool) {
	i, ok := s.index[key]
	if !ok {
		return TripRecord{}, false
	}
	return s.full[i], true
}

// Len returns the number of records.
func (s *Snapshot) Len() int { return len(s.full) }

// PublishedAt returns when the snapshot was published. Zero for the initial
// empty snapshot.
func (s *Snapshot) PublishedAt() time.Time { return s.publishedAt }

// Seq is the publish sequence number, starting at 1.
func (s *Snapshot) Seq() uint64 { return s.seq }

// Publisher swaps the externally visible snapshot atomically. Readers keep
// whichever snapshot they loaded and never observe a partially built one.
type Publisher struct {
	current atomic.Pointer[Snapshot]
	seq     atomic.Uint64
}

// NewPublisher creates a Publisher holding an empty snapshot.
func NewPublisher() *Publisher {
	p := &Publisher{}
	p.current.Store(newSnapshot(nil, time.Time{}, 0))
	return p
}

// Publish deep-copies records into a new snapshot and makes it current.
func (p *Publisher) Publish(records []TripRecord, at time.Time) (*Snapshot, error) {
	copied := make([]TripRecord, 0, len(records))
	if err := copier.CopyWithOption(&copied, &records, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("copy roster: %w", err)
	}

	snap := newSnapshot(copied, at, p.seq.Add(1))
	p.current.Store(snap)
	return snap, nil
}

// Current returns the latest published snapshot.
func (p *Publisher) Current() *Snapshot {
	return p.current.Load()
}

// FullRoster returns the full roster of the current snapshot.
func (p *Publisher) FullRoster() []TripRecord { return p.Current().FullRoster() }

// LightRoster returns the light roster of the current snapshot.
func (p *Publisher) LightRoster() []LightRecord { return p.Current().LightRoster() }

// ByKey looks a trip up in the current snapshot.
func (p *Publisher) ByKey(key string) (TripRecord, bool) { return p.Current().ByKey(key) }
