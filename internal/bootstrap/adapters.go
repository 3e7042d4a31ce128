package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/guildboard/guildboard/config"
	"github.com/guildboard/guildboard/internal/adapters/discord"
	"github.com/guildboard/guildboard/internal/chat"
)

// PlatformConfig contains configuration for the Discord bot adapter.
type PlatformConfig struct {
	Discord config.DiscordConfig
	// Timeout bounds every REST call made by the platform.
	Timeout time.Duration
}

// DiscordPlatform is the bot session and the REST platform built on it.
// The gateway reuses the session so one identity serves both surfaces.
type DiscordPlatform struct {
	Session  *discordgo.Session
	Platform *discord.Platform
}

// BuildPlatform creates the bot session and platform adapter. Nothing connects
// until the first REST call or RunChatGateway.
func BuildPlatform(cfg PlatformConfig) (DiscordPlatform, error) {
	session, err := discord.NewSession(cfg.Discord.BotToken)
	if err != nil {
		return DiscordPlatform{}, err
	}
	return DiscordPlatform{
		Session:  session,
		Platform: discord.NewPlatform(session, discord.PlatformOptions{Timeout: cfg.Timeout}),
	}, nil
}

// ChatGatewayConfig contains configuration for the chat gateway.
type ChatGatewayConfig struct {
	Session  *discordgo.Session
	Listener *chat.Listener
	Logger   *slog.Logger
}

// RunChatGateway connects to the gateway and feeds guild messages to the
// listener until ctx is canceled.
func RunChatGateway(ctx context.Context, cfg ChatGatewayConfig) error {
	gw := discord.NewGateway(discord.GatewayOptions{
		Session: cfg.Session,
		Handler: cfg.Listener,
		Logger:  cfg.Logger,
	})
	if err := gw.Run(ctx); err != nil {
		return fmt.Errorf("run chat gateway: %w", err)
	}
	return nil
}
