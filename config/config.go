package config

import (
	"os"
	"strings"
	"time"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: OAuth2 client, callback domain and session configuration
//   - discord.go: bot token, command prefix and relay channel
//   - database.go: listing store backend, Postgres and Redis configuration
//   - http.go: HTTP server configuration
//   - services.go: which inbound sources run in this process
type AppConfig struct {
	// IsDev controls development mode behavior (template reloading, verbose logs).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Authentication configuration
	Auth AuthConfig

	// Discord bot configuration
	Discord DiscordConfig `envPrefix:"DISCORD_"`

	// Storage configuration
	Store    StoreConfig
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Service mode configuration
	Services string `env:"SERVICES" envDefault:"http,chat"`

	// RemoteTimeout bounds every call to Discord (token exchange, lookups, sends).
	RemoteTimeout time.Duration `env:"REMOTE_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Auth.Sanitize()
	c.Discord.Sanitize()
	c.Store.Sanitize()

	if c.RemoteTimeout <= 0 {
		c.RemoteTimeout = 10 * time.Second
	}

	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// GetEnabledServices returns the enabled services based on the Services field.
func (c *AppConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(c.Services)
}

// IsHTTPServerEnabled returns true if the HTTP server service is enabled.
func (c *AppConfig) IsHTTPServerEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeHTTP]
}

// IsChatListenerEnabled returns true if the chat command listener is enabled.
func (c *AppConfig) IsChatListenerEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeChat]
}
