package umlweb

import (
	"context"
	"log/slog"

	"github.com/aretw0/umlweb/pkg/domain"
	"github.com/aretw0/umlweb/pkg/persistence"
	"github.com/aretw0/umlweb/pkg/ports"
	"github.com/aretw0/umlweb/pkg/store"
)

type settings struct {
	key    string
	logger *slog.Logger
	hooks  store.Hooks
}

// Option configures Open.
type Option func(*settings)

// WithKey sets the storage key the project is saved under.
func WithKey(key string) Option {
	return func(s *settings) {
		s.key = key
	}
}

// WithLogger sets the structured logger shared by the repository and the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithHooks registers mutation hooks (metrics, audit logs).
func WithHooks(hooks store.Hooks) Option {
	return func(s *settings) {
		s.hooks = hooks
	}
}

// Open loads the project kept in blob and returns a Store that persists every
// accepted change back to it.
func Open(ctx context.Context, blob ports.BlobStore, opts ...Option) (*store.Store, error) {
	cfg := settings{
		key:    domain.DefaultProjectKey,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	repo := persistence.NewRepository(blob,
		persistence.WithKey(cfg.key),
		persistence.WithLogger(cfg.logger),
	)
	return store.New(ctx, repo,
		store.WithLogger(cfg.logger),
		store.WithHooks(cfg.hooks),
	)
}
