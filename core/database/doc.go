// Package database opens the optional trip archive database.
//
// It wraps GORM and configures either a MySQL connection (production) or a
// SQLite file or in-memory database (local runs and tests) from the
// application's configuration.
//
// # Connect
//
// Connect selects the dialector for the configured driver, applies pool and
// timeout settings and pings the database before returning it.
//
// # Schema Inspection
//
// TableColumns and MissingColumns let consumers verify that an existing table
// carries the columns they expect before writing to it.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("Archive disabled", zap.Error(err))
//	}
//
//	missing, err := database.MissingColumns(db, "trip_archive", []string{"trip_key"})
package database
