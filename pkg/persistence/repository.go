// Package persistence maps the project snapshot onto any ports.BlobStore.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/umlweb/pkg/domain"
	"github.com/aretw0/umlweb/pkg/ports"
)

// Repository implements ports.ProjectRepository as one JSON document under a fixed key.
type Repository struct {
	store  ports.BlobStore
	key    string
	logger *slog.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithKey overrides the storage key (default domain.DefaultProjectKey).
func WithKey(key string) Option {
	return func(r *Repository) {
		if key != "" {
			r.key = key
		}
	}
}

// WithLogger sets the logger used for corrupt-data warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRepository creates a repository backed by store.
func NewRepository(store ports.BlobStore, opts ...Option) *Repository {
	r := &Repository{
		store:  store,
		key:    domain.DefaultProjectKey,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Key returns the storage key.
func (r *Repository) Key() string {
	return r.key
}

// Load returns the stored snapshot.
// Missing or undecodable data yields (nil, nil); the caller starts from an empty project.
func (r *Repository) Load(ctx context.Context) (*domain.Snapshot, error) {
	data, err := r.store.Get(ctx, r.key)
	if errors.Is(err, domain.ErrProjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load project %q: %w", r.key, err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		r.logger.Warn("Discarding corrupt project data", "key", r.key, "err", err)
		return nil, nil
	}

	snap = snap.Normalize()
	return &snap, nil
}

// Save writes the snapshot as JSON.
func (r *Repository) Save(ctx context.Context, snapshot domain.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	if err := r.store.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("save project %q: %w", r.key, err)
	}
	return nil
}

// Clear deletes the stored snapshot.
func (r *Repository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, r.key); err != nil {
		return fmt.Errorf("clear project %q: %w", r.key, err)
	}
	return nil
}
