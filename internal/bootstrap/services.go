package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/guildboard/guildboard/config"
	"github.com/guildboard/guildboard/internal/chat"
	"github.com/guildboard/guildboard/internal/ports"
	"github.com/guildboard/guildboard/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	// Auth is nil when the HTTP service is disabled.
	Auth     *service.AuthService
	Guard    *service.Guard
	Listings *service.ListingService
	Actions  *service.GuildActionService
	Listener *chat.Listener
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config   *config.AppConfig
	Platform ports.Platform
	Store    ports.ListingStore
	// RedisClient holds sessions; required when the HTTP service is enabled.
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires the guard, listing and action services shared by both
// surfaces, plus the surface-specific auth service and chat listener.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps are required")
	}
	if deps.Platform == nil || deps.Store == nil {
		return ServiceContainer{}, errors.New("platform and listing store are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	guard := service.NewGuard(deps.Platform)
	listings := service.NewListingService(service.ListingServiceOptions{
		Store:          deps.Store,
		Actions:        deps.Platform,
		RelayChannelID: cfg.Discord.RelayChannelID,
		Logger:         logger,
	})
	c := ServiceContainer{Guard: guard, Listings: listings}

	var userGuilds ports.UserGuildLister
	if cfg.IsHTTPServerEnabled() {
		bundle, err := BuildAuth(AuthConfig{
			Auth:        cfg.Auth,
			HTTPPort:    cfg.HTTP.Port,
			RedisClient: deps.RedisClient,
			Directory:   deps.Platform,
			Timeout:     cfg.RemoteTimeout,
			Logger:      logger,
		})
		if err != nil {
			return ServiceContainer{}, fmt.Errorf("build auth: %w", err)
		}
		c.Auth = bundle.Service
		userGuilds = bundle.UserGuilds
	}

	c.Actions = service.NewGuildActionService(service.GuildActionServiceOptions{
		Guard:      guard,
		Directory:  deps.Platform,
		Actions:    deps.Platform,
		Listings:   listings,
		UserGuilds: userGuilds,
		Stats:      deps.Platform,
		Logger:     logger,
	})

	if cfg.IsChatListenerEnabled() {
		l, err := chat.NewListener(chat.ListenerOptions{
			Prefix:    cfg.Discord.CommandPrefix,
			Guard:     guard,
			Listings:  listings,
			Directory: deps.Platform,
			Actions:   deps.Platform,
			Logger:    logger,
		})
		if err != nil {
			return ServiceContainer{}, fmt.Errorf("build chat listener: %w", err)
		}
		c.Listener = l
	}

	return c, nil
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Platform DiscordPlatform
	Logger   *slog.Logger
}

// RunServicesWithShutdown runs every enabled inbound source until SIGINT or
// SIGTERM arrives or one of them fails; a failure stops the others.
func RunServicesWithShutdown(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabled, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	if enabled[config.ServiceModeHTTP] {
		server, serverErr := NewHTTPServer(&HTTPServerConfig{Config: cfg.Config, Services: cfg.Services, Logger: logger})
		if serverErr != nil {
			return fmt.Errorf("build http server: %w", serverErr)
		}
		g.Go(func() error { return ServeHTTP(gctx, server, logger) })
	}

	if enabled[config.ServiceModeChat] {
		if cfg.Services.Listener == nil || cfg.Platform.Session == nil {
			return errors.New("chat service enabled without a listener and bot session")
		}
		g.Go(func() error {
			return RunChatGateway(gctx, ChatGatewayConfig{
				Session:  cfg.Platform.Session,
				Listener: cfg.Services.Listener,
				Logger:   logger,
			})
		})
	}

	err = g.Wait()
	if err != nil {
		logger.Error("service error", "error", err)
		return err
	}
	logger.Info("services stopped")
	return nil
}
