// Package storage provides local file storage for documents fetched from the
// research backend. Keys map to relative paths under a configured base directory.
package storage

import (
	"context"
	"io"
)

// System defines the storage operations for downloaded documents.
type System interface {
	// Store streams r to the specified key, replacing existing content.
	// Content is written to a temporary file and renamed into place, so a
	// failed or oversized write never leaves a partial file behind.
	// Returns ErrInvalidKey for empty or traversing keys and ErrTooLarge
	// when r exceeds the configured limit.
	Store(ctx context.Context, key string, r io.Reader) (int64, error)

	// Retrieve returns the data stored at the specified key.
	// Returns ErrNotFound if the key does not exist.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes the data at the specified key.
	// Returns nil if the key does not exist.
	Delete(ctx context.Context, key string) error

	// Validate reports whether a key exists and is accessible.
	Validate(ctx context.Context, key string) (bool, error)

	// Path resolves a key to its absolute filesystem path.
	Path(ctx context.Context, key string) (string, error)
}
