package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/guildboard/guildboard/config"
	"github.com/guildboard/guildboard/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logStartupInfo(ctx, logger, &cfg)

	if err = bootstrap.ValidateServiceConfig(&cfg); err != nil {
		return err
	}

	redisClient, err := connectRedisIfNeeded(&cfg, logger)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
	}

	store, err := bootstrap.OpenListingStore(ctx, bootstrap.ListingStoreConfig{
		Store:       cfg.Store,
		Postgres:    cfg.Postgres,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("open listing store: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close listing store failed", "error", cerr)
		}
	}()

	platform, err := bootstrap.BuildPlatform(bootstrap.PlatformConfig{Discord: cfg.Discord, Timeout: cfg.RemoteTimeout})
	if err != nil {
		return err
	}

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      &cfg,
		Platform:    platform.Platform,
		Store:       store,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	return bootstrap.RunServicesWithShutdown(ctx, &bootstrap.ServiceOrchestrationConfig{
		Config:   &cfg,
		Services: services,
		Platform: platform,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting guildboard",
		"store_backend", cfg.Store.Backend,
		"auth_mode", cfg.Auth.Mode,
		"domain", cfg.Auth.Domain,
		"dev", cfg.IsDev,
		"enabled_services", bootstrap.GetEnabledServices(cfg))
}

// connectRedisIfNeeded connects Redis when sessions or listings live there.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func connectRedisIfNeeded(cfg *config.AppConfig, logger *slog.Logger) (redis.UniversalClient, error) {
	if !cfg.IsHTTPServerEnabled() && cfg.Store.Backend != config.StoreBackendRedis {
		return nil, nil
	}
	client, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{
		RedisConfig:   cfg.Redis,
		AllowEmbedded: cfg.IsDev,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}
