package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/internal/storage"
	"github.com/utafrali/storefront/internal/storage/memory"
	pgstorage "github.com/utafrali/storefront/internal/storage/postgres"
	redisstorage "github.com/utafrali/storefront/internal/storage/redis"
	"github.com/utafrali/storefront/internal/storage/sqlite"
	"github.com/utafrali/storefront/pkg/database"
)

// openStorage connects the cart storage backend selected by
// CART_STORAGE_DRIVER.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Backend, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		logger.Warn("using in-memory cart storage; carts are lost on restart")
		return memory.New(), nil

	case config.DriverRedis:
		rdb, err := database.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
		return redisstorage.New(rdb, cfg.StorageTTL()), nil

	case config.DriverSQLite:
		backend, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		logger.Info("opened SQLite cart storage", slog.String("path", cfg.SQLitePath))
		return backend, nil

	case config.DriverPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), logger)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		backend := pgstorage.New(pool)
		if err := backend.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("connected to PostgreSQL",
			slog.String("host", cfg.PostgresHost),
			slog.String("database", cfg.PostgresDB),
		)
		return backend, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
