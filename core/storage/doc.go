// Package storage uploads roster documents to S3-compatible object storage.
//
// It wraps the MinIO client behind a small Client interface so the mirror
// can be tested with the mock in storage/mocks. EnsureBucket prepares the
// target bucket at startup, retrying while the storage service comes up.
package storage
