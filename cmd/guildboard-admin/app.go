package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/guildboard/guildboard/config"
	"github.com/guildboard/guildboard/internal/bootstrap"
	"github.com/guildboard/guildboard/internal/ports"
)

// app carries what every subcommand needs. Dependencies that are already set
// (tests) are not opened again.
type app struct {
	logger *slog.Logger
	out    io.Writer
	cfg    config.AppConfig

	store ports.ListingStore
	// actions is the bot account, or nil when no bot token is configured.
	actions ports.GuildActions
	redis   redis.UniversalClient
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "guildboard-admin",
		Short: "Operate on the guildboard listing store",
		Long: `guildboard-admin inspects and edits the public servers list using the
same environment configuration as the guildboard service.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.store != nil {
				return nil
			}
			return a.open(cmd.Context())
		},
	}
	root.SetOut(a.out)
	root.AddCommand(newListingsCmd(a), newMigrateCmd(a))
	return root
}

// open loads config and connects the configured listing store and, when a bot
// token is set, the bot account.
func (a *app) open(ctx context.Context) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	if cfg.Store.Backend == config.StoreBackendRedis {
		a.redis, err = bootstrap.ConnectRedis(bootstrap.DatabaseConfig{RedisConfig: cfg.Redis, Logger: a.logger})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
	}

	a.store, err = bootstrap.OpenListingStore(ctx, bootstrap.ListingStoreConfig{
		Store:       cfg.Store,
		Postgres:    cfg.Postgres,
		RedisClient: a.redis,
		Logger:      a.logger,
	})
	if err != nil {
		return fmt.Errorf("open listing store: %w", err)
	}

	if cfg.Discord.BotToken != "" {
		p, err := bootstrap.BuildPlatform(bootstrap.PlatformConfig{Discord: cfg.Discord, Timeout: cfg.RemoteTimeout})
		if err != nil {
			return err
		}
		a.actions = p.Platform
	}
	return nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("close listing store failed", "error", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("close redis failed", "error", err)
		}
	}
}
