package ports

import (
	"context"

	"github.com/aretw0/umlweb/pkg/domain"
)

// BlobStore is a key-value store of opaque bytes.
// Adapters (memory, file, redis, sqlite, postgres) implement it; they know
// nothing about the project model.
type BlobStore interface {
	// Get retrieves the value stored under key.
	// Returns domain.ErrProjectNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// ProjectRepository persists the project snapshot.
// This is the persistence collaborator of the project store.
type ProjectRepository interface {
	// Load returns the stored snapshot, or nil when there is no prior project.
	// A corrupt stored value also counts as "no prior project".
	Load(ctx context.Context) (*domain.Snapshot, error)

	// Save persists the full snapshot.
	Save(ctx context.Context, snapshot domain.Snapshot) error

	// Clear removes the stored snapshot.
	Clear(ctx context.Context) error
}
