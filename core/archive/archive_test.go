package archive

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"vonatinfo/core/database"
	"vonatinfo/core/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func intp(v int) *int { return &v }

func evictions() []reconcile.Eviction {
	at := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	return []reconcile.Eviction{
		{
			Record: reconcile.TripRecord{
				Key:          "7012",
				Position:     reconcile.VehiclePosition{Source: "mav", VehicleID: "v1", Lat: 46.25, Lon: 20.15},
				Schedule:     []reconcile.StopTime{{Name: "Szeged", ScheduledArrival: 34000, ScheduledDeparture: 34000}},
				FinalArrival: intp(34180),
				ObservedAt:   1736934000,
			},
			Reason: reconcile.EvictArrived,
			At:     at,
		},
		{
			Record: reconcile.TripRecord{Key: "6230", Position: reconcile.VehiclePosition{Source: "mav"}, Headsign: "Debrecen"},
			Reason: reconcile.EvictStale,
			At:     at,
		},
	}
}

func TestSink_SQLite(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	sink := NewSink(db, zap.NewNop())
	assert.Equal(t, "archive", sink.Name())
	require.NoError(t, sink.OnCycle(context.Background(), reconcile.Cycle{Evicted: evictions()}))
	require.NoError(t, sink.OnCycle(context.Background(), reconcile.Cycle{}))

	var rows []TripArchive
	require.NoError(t, db.Order("trip_short_name").Find(&rows).Error)
	require.Len(t, rows, 2)

	assert.Equal(t, "6230", rows[0].TripShortName)
	assert.Equal(t, "stale", rows[0].Reason)
	assert.Equal(t, "Debrecen", rows[0].Destination)
	assert.Nil(t, rows[0].FinalArrival)

	assert.Equal(t, "7012", rows[1].TripShortName)
	assert.Equal(t, "arrived", rows[1].Reason)
	assert.Equal(t, "Szeged", rows[1].Destination)
	require.NotNil(t, rows[1].FinalArrival)
	assert.Equal(t, 34180, *rows[1].FinalArrival)
	assert.Equal(t, int64(1736934000), rows[1].ObservedAt)
}

func TestMigrate_UpgradesExistingTable(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	// An older table with only the key column.
	require.NoError(t, db.Exec("CREATE TABLE trip_archive (id INTEGER PRIMARY KEY, trip_short_name TEXT)").Error)
	require.NoError(t, Migrate(db))

	missing, err := database.MissingColumns(db, TableName, requiredColumns)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestSink_MySQLInsert(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `trip_archive`")).
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectCommit()

	require.NoError(t, NewSink(db, zap.NewNop()).OnCycle(context.Background(), reconcile.Cycle{Evicted: evictions()}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSink_MySQLFailure(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `trip_archive`")).
		WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	err := NewSink(db, zap.NewNop()).OnCycle(context.Background(), reconcile.Cycle{Evicted: evictions()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "archive 2 trips")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFromEviction_CopiesFinalArrival(t *testing.T) {
	ev := evictions()[0]
	row := FromEviction(ev)
	*ev.Record.FinalArrival = 0
	assert.Equal(t, 34180, *row.FinalArrival)
}
