// Package storage picks the order store once, at process start, from the
// configured backend name.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"eventmaster/internal/config"
	"eventmaster/internal/database"
	"eventmaster/internal/local"
	"eventmaster/internal/mongo"
	"eventmaster/internal/redis"
	"eventmaster/internal/repository"
)

// Open returns the configured store. A remote backend that cannot be
// reached yields a *repository.MisconfiguredStore instead of an error, so
// the caller can keep serving reads of nothing and reject every write.
// Unknown backend names and local failures are returned as errors.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (repository.OrderStore, error) {
	if log == nil {
		log = slog.Default()
	}

	if cfg.Remote() {
		initCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
		defer cancel()

		store, err := openRemote(initCtx, cfg, log)
		if err != nil {
			log.Error("order store backend failed to initialize", "backend", cfg.StoreBackend, "error", err)
			return repository.NewMisconfiguredStore(cfg.StoreBackend, err), nil
		}
		log.Info("order store ready", "backend", cfg.StoreBackend)
		return store, nil
	}

	switch cfg.StoreBackend {
	case config.BackendLocal:
		store, err := local.Open(cfg.LocalDBPath, log)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.BackendMemory:
		return repository.NewMemoryStore(), nil
	}

	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func openRemote(ctx context.Context, cfg *config.Config, log *slog.Logger) (repository.OrderStore, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		client, err := redis.Initialize(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return redis.NewOrderStore(client, log), nil

	case config.BackendMongo:
		db, err := mongo.Connect(ctx, cfg.MongoURL, cfg.MongoDatabase, cfg.StoreTimeout, log)
		if err != nil {
			return nil, err
		}
		return mongo.NewOrderStore(db, log), nil

	default:
		db, err := database.Initialize(cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		return database.NewOrderStore(db, cfg.DatabaseURL, log), nil
	}
}

// Close releases backend connections when the store owns any.
func Close(store repository.OrderStore) error {
	if c, ok := store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
