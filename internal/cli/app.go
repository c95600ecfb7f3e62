// Package cli wires configuration, storage, logging and metrics into a
// ready-to-use project store for the umlweb commands.
package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/umlweb"
	"github.com/aretw0/umlweb/internal/config"
	"github.com/aretw0/umlweb/pkg/observability"
	"github.com/aretw0/umlweb/pkg/store"
)

// App is an opened project with everything a command needs around it.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Store    *store.Store
	Registry *prometheus.Registry

	close func() error
}

// Open loads the project described by cfg. Logs are written to logOut.
// Callers must Close the App.
func Open(ctx context.Context, cfg config.Config, logOut io.Writer) (*App, error) {
	logger, err := NewLogger(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}

	blob, closeFn, err := OpenBlobStore(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	st, err := umlweb.Open(ctx, blob,
		umlweb.WithKey(cfg.Storage.Key),
		umlweb.WithLogger(logger),
		umlweb.WithHooks(observability.Combine(metrics.Hooks(), observability.LogHooks(logger))),
	)
	if err != nil {
		closeFn()
		return nil, err
	}

	logger.Debug("Project opened", "driver", cfg.Storage.Driver, "key", cfg.Storage.Key)
	return &App{
		Config:   cfg,
		Logger:   logger,
		Store:    st,
		Registry: reg,
		close:    closeFn,
	}, nil
}

// Close releases the storage connections.
func (a *App) Close() error {
	return a.close()
}
