// Package mirror writes the published roster to disk and, optionally, to
// object storage, so a static host can serve it without the API.
package mirror
