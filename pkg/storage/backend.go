// Package storage reads input tables and writes rendered artifacts through a
// BlobStore. Local paths use the filesystem, s3://bucket/key URIs use S3.
package storage

import (
	"context"
	"io/fs"
)

// ErrNotFound is returned by every backend for a missing key.
var ErrNotFound = fs.ErrNotExist

// BlobStore defines the interface for abstract storage backends.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	// Location returns a human readable address for key.
	Location(key string) string
}
