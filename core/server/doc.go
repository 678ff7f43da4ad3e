// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber application; this package only defines
// the listen address, the optional API key, the public directory served as
// static files and the CORS origins.
package server
