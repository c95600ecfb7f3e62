package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/umlweb/pkg/store"
)

// LogHooks logs every mutation at debug level and every save error at error level.
func LogHooks(logger *slog.Logger) store.Hooks {
	return store.Hooks{
		OnMutation: func(ctx context.Context, e *store.MutationEvent) {
			logger.DebugContext(ctx, "project mutated", "op", e.Op, "duration", e.Duration)
		},
		OnSaveError: func(ctx context.Context, e *store.MutationEvent, err error) {
			logger.ErrorContext(ctx, "project save failed", "op", e.Op, "err", err)
		},
	}
}

// Combine fans every callback out to all hooks, in order.
func Combine(hooks ...store.Hooks) store.Hooks {
	return store.Hooks{
		OnMutation: func(ctx context.Context, e *store.MutationEvent) {
			for _, h := range hooks {
				if h.OnMutation != nil {
					h.OnMutation(ctx, e)
				}
			}
		},
		OnSaveError: func(ctx context.Context, e *store.MutationEvent, err error) {
			for _, h := range hooks {
				if h.OnSaveError != nil {
					h.OnSaveError(ctx, e, err)
				}
			}
		},
	}
}
