package archive

import (
	"context"
	"fmt"
	"time"

	"vonatinfo/core/database"
	"vonatinfo/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TableName is the archive table.
const TableName = "trip_archive"

// TripArchive is one evicted trip.
type TripArchive struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement"`
	TripShortName string    `gorm:"column:trip_short_name;size:64;index"`
	Source        string    `gorm:"column:source;size:16"`
	VehicleID     string    `gorm:"column:vehicle_id;size:64"`
	Lat           float64   `gorm:"column:lat"`
	Lon           float64   `gorm:"column:lon"`
	Destination   string    `gorm:"column:destination;size:128"`
	FinalArrival  *int      `gorm:"column:final_arrival"`
	ObservedAt    int64     `gorm:"column:observed_at"`
	Reason        string    `gorm:"column:reason;size:16"`
	EvictedAt     time.Time `gorm:"column:evicted_at;index"`
}

// TableName overrides the gorm table name.
func (TripArchive) TableName() string { return TableName }

var requiredColumns = []string{
	"trip_short_name", "source", "vehicle_id", "lat", "lon",
	"final_arrival", "observed_at", "reason", "evicted_at",
}

// Migrate creates or updates the archive table and verifies its columns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&TripArchive{}); err != nil {
		return fmt.Errorf("migrate %s: %w", TableName, err)
	}
	missing, err := database.MissingColumns(db, TableName, requiredColumns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns %v", TableName, missing)
	}
	return nil
}

// FromEviction converts an eviction into an archive row.
func FromEviction(ev reconcile.Eviction) TripArchive {
	r := ev.Record
	row := TripArchive{
		TripShortName: r.Key,
		Source:        r.Position.Source,
		VehicleID:     r.Position.VehicleID,
		Lat:           r.Position.Lat,
		Lon:           r.Position.Lon,
		Destination:   r.Destination(),
		ObservedAt:    r.ObservedAt,
		Reason:        string(ev.Reason),
		EvictedAt:     ev.At.UTC(),
	}
	if r.FinalArrival != nil {
		fa := *r.FinalArrival
		row.FinalArrival = &fa
	}
	return row
}

// Sink writes evictions to the archive table.
type Sink struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSink creates a Sink on db. Call Migrate first.
func NewSink(db *gorm.DB, logger *zap.Logger) *Sink {
	return &Sink{db: db, logger: logger.With(zap.String("component", "archive"))}
}

// Name implements reconcile.Sink.
func (s *Sink) Name() string { return "archive" }

// OnCycle implements reconcile.Sink.
func (s *Sink) OnCycle(ctx context.Context, c reconcile.Cycle) error {
	if len(c.Evicted) == 0 {
		return nil
	}

	rows := make([]TripArchive, 0, len(c.Evicted))
	for _, ev := range c.Evicted {
		rows = append(rows, FromEviction(ev))
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("archive %d trips: %w", len(rows), err)
	}
	s.logger.Debug("Archived trips", zap.Int("count", len(rows)))
	return nil
}
