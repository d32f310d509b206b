package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/store"
)

// Resources are the long-lived connections of a process
type Resources struct {
	Store store.RecipeStore
	// Redis is nil when no Redis server is configured or reachable
	Redis   *redis.Client
	closers []func() error
}

// Open connects the configured store backend and, when configured, Redis.
// A Redis failure is fatal only for the redis backend; otherwise the process
// continues without it.
func Open(ctx context.Context, cfg *config.Config, migrationsDir string) (*Resources, error) {
	res := &Resources{}

	if cfg.RedisConfigured() {
		client, err := NewRedisClient(cfg)
		if err != nil {
			if cfg.StoreBackend == store.BackendRedis {
				return nil, err
			}
			slog.Warn("continuing without redis", "component", "database", "error", err)
		} else {
			res.Redis = client
			res.closers = append(res.closers, client.Close)
		}
	}

	switch cfg.StoreBackend {
	case store.BackendPostgres, store.BackendSQLite:
		db, err := New(cfg)
		if err != nil {
			res.Close()
			return nil, err
		}
		if sqlDB, err := db.DB(); err == nil {
			res.closers = append(res.closers, sqlDB.Close)
		}
		if err := RunMigrations(ctx, db, cfg.TableName, migrationsDir); err != nil {
			res.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		res.Store = store.NewGormStore(db, cfg.TableName)

	case store.BackendDynamoDB:
		client, err := config.NewDynamoDBClient(ctx, cfg)
		if err != nil {
			res.Close()
			return nil, err
		}
		res.Store = store.NewDynamoStore(client, cfg.TableName)

	case store.BackendRedis:
		res.Store = store.NewRedisStore(res.Redis, cfg.TableName)

	default:
		res.Close()
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	slog.Info("recipe store ready", "component", "database", "backend", cfg.StoreBackend, "table", cfg.TableName)
	return res, nil
}

// Close releases every connection, in reverse order of opening
func (r *Resources) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}
