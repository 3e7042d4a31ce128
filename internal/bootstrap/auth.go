package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guildboard/guildboard/config"
	"github.com/guildboard/guildboard/internal/adapters/devauth"
	"github.com/guildboard/guildboard/internal/adapters/discordauth"
	redisadapter "github.com/guildboard/guildboard/internal/adapters/redis"
	"github.com/guildboard/guildboard/internal/ports"
	"github.com/guildboard/guildboard/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth config.AuthConfig
	// HTTPPort feeds the derived OAuth2 callback URL.
	HTTPPort    int
	RedisClient redis.UniversalClient
	// Directory answers the dev provider's guild list from live guild state.
	Directory ports.GuildDirectory
	// Timeout bounds calls to the OAuth2 endpoints.
	Timeout time.Duration
	Logger  *slog.Logger
}

// AuthBundle is the login flow plus the lister used for the dashboard guild picker.
type AuthBundle struct {
	Service    *service.AuthService
	UserGuilds ports.UserGuildLister
}

type authProvider interface {
	ports.AuthProvider
	ports.UserGuildLister
}

// BuildAuth creates the auth service for the configured auth mode.
func BuildAuth(cfg AuthConfig) (AuthBundle, error) {
	if cfg.RedisClient == nil {
		return AuthBundle{}, errors.New("auth requires a redis client for sessions")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	domain, err := cfg.Auth.DomainURL()
	if err != nil {
		return AuthBundle{}, err
	}

	var prov authProvider
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		prov, err = buildDevProvider(cfg)
		if err == nil {
			logger.Warn("dev auth enabled; every login is the configured dev identity",
				"user_id", cfg.Auth.DevAuth.UserID)
		}
	case config.AuthModeOAuth:
		prov, err = buildDiscordProvider(cfg)
	default:
		err = fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}
	if err != nil {
		return AuthBundle{}, err
	}

	svc := service.NewAuthService(service.AuthServiceOptions{
		Provider:   prov,
		Sessions:   redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, "session:"),
		Domain:     domain,
		SessionTTL: cfg.Auth.SessionTTL,
		PendingTTL: cfg.Auth.PendingTTL,
		Logger:     logger,
	})
	return AuthBundle{Service: svc, UserGuilds: prov}, nil
}

func buildDevProvider(cfg AuthConfig) (*devauth.Provider, error) {
	prov, err := devauth.NewProvider(devauth.Config{
		UserID:      cfg.Auth.DevAuth.UserID,
		Username:    cfg.Auth.DevAuth.Username,
		AccessToken: cfg.Auth.DevAuth.AccessToken,
		Directory:   cfg.Directory,
	})
	if err != nil {
		return nil, fmt.Errorf("create dev auth provider: %w", err)
	}
	return prov, nil
}

func buildDiscordProvider(cfg AuthConfig) (*discordauth.Provider, error) {
	oauth := cfg.Auth.OAuth
	callback, err := cfg.Auth.CallbackURL(cfg.HTTPPort)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	prov, err := discordauth.NewProvider(discordauth.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  callback,
		Scopes:       oauth.Scopes,
		AuthURL:      oauth.AuthURL,
		TokenURL:     oauth.TokenURL,
		ProfileURL:   oauth.ProfileURL,
		GuildsURL:    oauth.GuildsURL,
		Prompt:       oauth.Prompt,
		HTTPClient:   &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("create discord oauth provider: %w", err)
	}
	return prov, nil
}
