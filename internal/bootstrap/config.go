package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/guildboard/guildboard/config"
)

// InitLogger initializes the structured logger.
func InitLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// ValidateServiceConfig validates that at least one service is enabled and that
// every enabled service has what it needs to start.
func ValidateServiceConfig(cfg *config.AppConfig) error {
	if cfg == nil {
		return errors.New("service config is required")
	}
	services, err := cfg.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("invalid service configuration: %w", err)
	}

	if len(services) == 0 {
		return errors.New("no services enabled")
	}

	if services[config.ServiceModeHTTP] {
		if err = cfg.Auth.Validate(); err != nil {
			return fmt.Errorf("invalid auth configuration: %w", err)
		}
		if _, err = cfg.Auth.CallbackURL(cfg.HTTP.Port); err != nil {
			return fmt.Errorf("invalid auth configuration: %w", err)
		}
	}
	// Both surfaces act on guilds through the bot account.
	if cfg.Discord.BotToken == "" {
		return errors.New("DISCORD_BOT_TOKEN is required")
	}

	return nil
}

// GetEnabledServices returns the sorted names of enabled services.
func GetEnabledServices(cfg *config.AppConfig) []string {
	if cfg == nil {
		return []string{}
	}
	services, err := cfg.GetEnabledServices()
	if err != nil {
		// Return empty list on error - validation will catch this
		return []string{}
	}

	enabledServices := make([]string, 0, len(services))
	for svc := range services {
		enabledServices = append(enabledServices, string(svc))
	}
	sort.Strings(enabledServices)
	return enabledServices
}
