// Package repository defines the artifact store interface and errors.
package repository

import "context"

// Store provides durable access to trained model artifacts, keyed by
// artifact name. Implementations must be safe for concurrent use.
type Store interface {
	// Load returns the raw encoded artifact for name.
	// Returns ErrNotFound if the artifact has never been saved.
	Load(ctx context.Context, name string) ([]byte, error)

	// Save persists the raw encoded artifact under name, replacing any
	// previous version.
	Save(ctx context.Context, name string, data []byte) error

	// Names returns the names of all stored artifacts.
	Names(ctx context.Context) ([]string, error)

	// Close releases the underlying storage.
	Close() error
}
