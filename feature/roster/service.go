package roster

import (
	"errors"
	"strings"
	"time"

	"vonatinfo/core/reconcile"
	"vonatinfo/feature/feeds"

	"go.uber.org/zap"
)

var (
	// ErrEmptyKey is returned when no trip short name was given.
	ErrEmptyKey = errors.New("missing tripShortName")
	// ErrTripNotFound is returned for an unknown trip short name.
	ErrTripNotFound = errors.New("train not found")
)

// SnapshotSource returns the current published snapshot.
type SnapshotSource interface {
	Current() *reconcile.Snapshot
}

// StatusSource reports the feed health.
type StatusSource interface {
	Statuses() []feeds.Status
}

// Status is the service health document.
type Status struct {
	Trips       int            `json:"trips"`
	Seq         uint64         `json:"seq"`
	PublishedAt *time.Time     `json:"publishedAt"`
	Feeds       []feeds.Status `json:"feeds"`
}

// Service answers roster queries.
type Service struct {
	snapshots SnapshotSource
	statuses  StatusSource
	logger    *zap.Logger
}

// NewService creates a Service. statuses may be nil.
func NewService(snapshots SnapshotSource, statuses StatusSource, logger *zap.Logger) *Service {
	return &Service{snapshots: snapshots, statuses: statuses, logger: logger}
}

// Full returns the full roster document.
func (s *Service) Full() reconcile.FullDocument {
	return s.snapshots.Current().FullDocument()
}

// BySource returns the full roster document restricted to trips whose
// position came from source.
func (s *Service) BySource(source string) reconcile.FullDocument {
	doc := s.snapshots.Current().FullDocument()
	kept := make([]reconcile.TripRecord, 0, len(doc.Data.VehiclePositions))
	for _, r := range doc.Data.VehiclePositions {
		if r.Position.Source == source {
			kept = append(kept, r)
		}
	}
	doc.Data.VehiclePositions = kept
	return doc
}

// Light returns the light roster document.
func (s *Service) Light() reconcile.LightDocument {
	return s.snapshots.Current().LightDocument()
}

// Trip looks up one trip by its short name.
func (s *Service) Trip(tripShortName string) (reconcile.TripRecord, error) {
	key := strings.TrimSpace(tripShortName)
	if key == "" {
		return reconcile.TripRecord{}, ErrEmptyKey
	}
	rec, ok := s.snapshots.Current().ByKey(key)
	if !ok {
		return reconcile.TripRecord{}, ErrTripNotFound
	}
	return rec, nil
}

// Status reports the snapshot and feed health.
func (s *Service) Status() Status {
	snap := s.snapshots.Current()
	st := Status{Trips: snap.Len(), Seq: snap.Seq(), Feeds: []feeds.Status{}}
	if at := snap.PublishedAt(); !at.IsZero() {
		st.PublishedAt = &at
	}
	if s.statuses != nil {
		st.Feeds = s.statuses.Statuses()
	}
	return st
}
