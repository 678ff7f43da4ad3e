// Package config loads the service configuration.
//
// Values come from, in increasing precedence: the `default` struct tags,
// an optional config.yaml (or any format viper reads) in the given
// directory, a .env file and the process environment. Nested keys map to
// environment variables by replacing dots with underscores, so
// feeds.mav.interval becomes FEEDS_MAV_INTERVAL.
//
// # Configuration Structure
//
//   - Server: listen address, API key, static directory, CORS
//   - Log: level, format and the optional rotating log file
//   - Database: the optional trip archive connection
//   - Storage: the optional MinIO mirror of the roster documents
//   - Mirror, Metrics, Events: the remaining cycle sinks
//   - Feeds: the MÁV and ÖBB position feeds and the timetable lookup
//   - Timezone: the zone schedule times are expressed in
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
