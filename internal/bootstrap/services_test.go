package bootstrap

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildboard/guildboard/config"
	redisadapter "github.com/guildboard/guildboard/internal/adapters/redis"
	"github.com/guildboard/guildboard/internal/testutil"
)

func TestGetEnabledServices(t *testing.T) {
	assert.Equal(t, []string{"chat", "http"}, GetEnabledServices(&config.AppConfig{Services: "http,chat"}))
	assert.Equal(t, []string{"http"}, GetEnabledServices(&config.AppConfig{Services: "http"}))
	assert.Empty(t, GetEnabledServices(&config.AppConfig{Services: "bogus"}))
	assert.Empty(t, GetEnabledServices(nil))
}

func TestValidateServiceConfig(t *testing.T) {
	valid := func() *config.AppConfig {
		return &config.AppConfig{
			Services: "http,chat",
			Auth: config.AuthConfig{
				Mode:   config.AuthModeOAuth,
				Domain: "https://guildboard.example",
				OAuth:  config.OAuthConfig{ClientID: "id", ClientSecret: "secret"},
			},
			Discord: config.DiscordConfig{BotToken: "token"},
			HTTP:    config.HTTPConfig{Port: 8080},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.AppConfig)
		wantErr bool
	}{
		{name: "valid", mutate: func(*config.AppConfig) {}},
		{name: "no services", mutate: func(c *config.AppConfig) { c.Services = "" }, wantErr: true},
		{name: "unknown service", mutate: func(c *config.AppConfig) { c.Services = "http,reaper" }, wantErr: true},
		{name: "missing bot token", mutate: func(c *config.AppConfig) { c.Discord.BotToken = "" }, wantErr: true},
		{name: "missing oauth secret", mutate: func(c *config.AppConfig) { c.Auth.OAuth.ClientSecret = "" }, wantErr: true},
		{
			name: "chat only ignores oauth",
			mutate: func(c *config.AppConfig) {
				c.Services = "chat"
				c.Auth.OAuth = config.OAuthConfig{}
			},
		},
		{name: "bad domain", mutate: func(c *config.AppConfig) { c.Auth.Domain = "ftp://x" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := ValidateServiceConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}

	assert.Error(t, ValidateServiceConfig(nil))
}

func TestNewServices(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := redisadapter.NewListingStore(client, redisadapter.ListingStoreOptions{})

	t.Run("chat only", func(t *testing.T) {
		cfg := &config.AppConfig{Services: "chat", Discord: config.DiscordConfig{CommandPrefix: "!"}}
		c, err := NewServices(&ServiceDeps{
			Config:   cfg,
			Platform: testutil.NewFakePlatform(),
			Store:    store,
			Logger:   quietLogger(),
		})
		require.NoError(t, err)
		assert.Nil(t, c.Auth)
		assert.NotNil(t, c.Listener)
		assert.NotNil(t, c.Actions)
	})

	t.Run("http needs redis", func(t *testing.T) {
		cfg := &config.AppConfig{
			Services: "http",
			Auth: config.AuthConfig{
				Mode:    config.AuthModeMock,
				Domain:  "http://localhost",
				DevAuth: config.DevAuthConfig{UserID: "1", Username: "dev"},
			},
		}
		_, err := NewServices(&ServiceDeps{Config: cfg, Platform: testutil.NewFakePlatform(), Store: store})
		require.Error(t, err)

		c, err := NewServices(&ServiceDeps{
			Config:      cfg,
			Platform:    testutil.NewFakePlatform(),
			Store:       store,
			RedisClient: client,
			Logger:      quietLogger(),
		})
		require.NoError(t, err)
		assert.NotNil(t, c.Auth)
		assert.Nil(t, c.Listener)
	})

	t.Run("missing platform", func(t *testing.T) {
		_, err := NewServices(&ServiceDeps{Config: &config.AppConfig{Services: "chat"}, Store: store})
		assert.Error(t, err)
	})
}

func TestNewHTTPServer(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.AppConfig{
		Services: "http",
		Auth: config.AuthConfig{
			Mode:    config.AuthModeMock,
			Domain:  "http://localhost",
			DevAuth: config.DevAuthConfig{UserID: "1", Username: "dev"},
		},
		HTTP: config.HTTPConfig{Port: 9123},
	}
	c, err := NewServices(&ServiceDeps{
		Config:      cfg,
		Platform:    testutil.NewFakePlatform(),
		Store:       redisadapter.NewListingStore(client, redisadapter.ListingStoreOptions{}),
		RedisClient: client,
		Logger:      quietLogger(),
	})
	require.NoError(t, err)

	srv, err := NewHTTPServer(&HTTPServerConfig{Config: cfg, Services: c, Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, ":9123", srv.Addr)
	assert.NotNil(t, srv.Handler)
}
