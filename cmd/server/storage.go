package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/kopio/internal/config"
	"github.com/phrazzld/kopio/internal/platform/filekv"
	"github.com/phrazzld/kopio/internal/platform/memory"
	"github.com/phrazzld/kopio/internal/platform/postgres"
	"github.com/phrazzld/kopio/internal/platform/redis"
	"github.com/phrazzld/kopio/internal/redact"
	"github.com/phrazzld/kopio/internal/store"
)

// openStore opens the key-value backend selected by cfg.Storage.Backend.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.KeyValueStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		logger.Warn("Using in-memory storage; planner data is lost on restart")
		return memory.New(), nil

	case config.BackendFile:
		kv, err := filekv.Open(cfg.Storage.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open file storage: %w", err)
		}
		logger.Info("File storage opened", "dir", kv.Dir())
		return kv, nil

	case config.BackendPostgres:
		logger.Info("Connecting to database", "url", redact.URL(cfg.Database.URL))
		db, err := postgres.Open(ctx, cfg.Database.URL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if cfg.Database.MigrateOnStart {
			if err := postgres.Migrate(ctx, db, logger); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		return postgres.NewKVStore(db, logger), nil

	case config.BackendRedis:
		kv, err := redis.Connect(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return kv, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
