// Package core defines the key-value blob abstraction the appointment store
// persists through. Each key holds one opaque value, always written in full.
package core

import (
	"context"

	"turnero/pkg/platform/sentinel"
)

// Driver identifies a concrete blob backend.
type Driver string

const (
	DriverFile     Driver = "file"     // local filesystem (default)
	DriverMemory   Driver = "memory"   // in-process (tests, throwaway runs)
	DriverRedis    Driver = "redis"    // single Redis string per key
	DriverPostgres Driver = "postgres" // one row per key
	DriverSQLite   Driver = "sqlite"   // one row per key, embedded
	DriverS3       Driver = "s3"       // S3 / MinIO object per key
)

// Store is implemented by every blob backend.
type Store interface {
	// Get returns the value at key, or an error wrapping ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put replaces the value at key.
	Put(ctx context.Context, key string, data []byte) error
	Driver() Driver
	Close() error
}

// ErrNotFound is returned (possibly wrapped) when a key has never been written.
var ErrNotFound = sentinel.ErrNotFound
