package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/umlweb/internal/config"
	"github.com/aretw0/umlweb/pkg/adapters/file"
	"github.com/aretw0/umlweb/pkg/adapters/memory"
	"github.com/aretw0/umlweb/pkg/adapters/postgres"
	"github.com/aretw0/umlweb/pkg/adapters/redis"
	"github.com/aretw0/umlweb/pkg/adapters/sqlite"
	"github.com/aretw0/umlweb/pkg/persistence/middleware"
	"github.com/aretw0/umlweb/pkg/ports"
)

// OpenBlobStore opens the blob store selected by cfg.Driver, wrapped in the
// encryption middleware when an encryption key is configured. The returned
// func releases the store's connections.
func OpenBlobStore(ctx context.Context, cfg config.Storage) (ports.BlobStore, func() error, error) {
	blob, closeFn, err := openDriver(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.EncryptionKey == "" {
		return blob, closeFn, nil
	}

	key, err := middleware.ParseKey(cfg.EncryptionKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("encryption key: %w", err)
	}
	enc := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	return middleware.Chain(blob, enc), closeFn, nil
}

func noClose() error { return nil }

func openDriver(ctx context.Context, cfg config.Storage) (ports.BlobStore, func() error, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.NewStore(), noClose, nil

	case config.DriverFile:
		return file.New(cfg.Path), noClose, nil

	case config.DriverRedis:
		var opts []redis.Option
		if cfg.RedisPrefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.RedisPrefix))
		}
		s := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, opts...)
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
		}
		return s, s.Close, nil

	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil

	case config.DriverPostgres:
		s, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
