package store

import (
	"log/slog"

	"github.com/google/uuid"
)

// Option defines a functional option for configuring the Store.
type Option func(*Store)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator replaces the id generator used for new entities (default uuid.NewString).
// gen may be called from several goroutines.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks Hooks) Option {
	return func(s *Store) {
		s.hooks = hooks
	}
}

func defaultIDGenerator() string {
	return uuid.NewString()
}
