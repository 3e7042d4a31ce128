package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/guildboard/guildboard/config"
	redisadapter "github.com/guildboard/guildboard/internal/adapters/redis"
	"github.com/guildboard/guildboard/internal/data"
	"github.com/guildboard/guildboard/internal/migrate"
	"github.com/guildboard/guildboard/internal/ports"
)

// ListingStoreConfig selects the listing store backend and what it connects to.
type ListingStoreConfig struct {
	Store    config.StoreConfig
	Postgres config.DBConfig
	// RedisClient backs the redis backend. It is shared, so closing the store leaves it open.
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// OpenListingStore opens the configured listing store and applies migrations for
// SQL backends. Close the returned store on shutdown.
//
//nolint:ireturn // the backend is chosen at runtime.
func OpenListingStore(ctx context.Context, cfg ListingStoreConfig) (ports.ListingStore, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		if cfg.RedisClient == nil {
			return nil, errors.New("redis listing store requires a redis client")
		}
		logger.InfoContext(ctx, "listing store ready", "backend", cfg.Store.Backend, "prefix", cfg.Store.ListingKeyPrefix)
		return redisadapter.NewListingStore(cfg.RedisClient, redisadapter.ListingStoreOptions{
			Prefix: cfg.Store.ListingKeyPrefix,
		}), nil

	case config.StoreBackendPostgres:
		db, err := ConnectDB(DatabaseConfig{DBConfig: cfg.Postgres, Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("connect db: %w", err)
		}
		if !cfg.Postgres.RunMigrationsOnStart {
			logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
			return data.NewListingRepo(db, data.ListingRepoOptions{Dialect: migrate.Postgres}), nil
		}
		return migratedRepo(ctx, db, migrate.Postgres, logger)

	case config.StoreBackendSQLite:
		db, err := OpenSQLite(ctx, cfg.Store.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return migratedRepo(ctx, db, migrate.SQLite, logger)

	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}
}

func migratedRepo(ctx context.Context, db *sql.DB, dialect migrate.Dialect, logger *slog.Logger) (*data.ListingRepo, error) {
	if err := RunMigrations(ctx, db, dialect, logger); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close database: %w", closeErr))
		}
		return nil, err
	}
	return data.NewListingRepo(db, data.ListingRepoOptions{Dialect: dialect}), nil
}
