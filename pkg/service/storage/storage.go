package storage

import (
	"context"
	"io"
)

// Service stores document file bodies. Metadata lives in the repository;
// this interface only moves bytes.
type Service interface {
	// Put writes the object at the given path, replacing any existing body
	Put(ctx context.Context, path string, r io.Reader) error

	// Get opens the object at the given path for reading. The caller must
	// close the returned reader.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object at the given path
	Delete(ctx context.Context, path string) error

	// Close releases underlying client resources
	Close() error
}
