package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/guildboard/guildboard/internal/chat"
)

// MessageHandler consumes chat messages delivered by the gateway.
type MessageHandler interface {
	Handle(ctx context.Context, msg chat.Message)
}

// Gateway delivers guild messages from the Discord gateway to a MessageHandler.
type Gateway struct {
	session *discordgo.Session
	handler MessageHandler
	logger  *slog.Logger
}

// GatewayOptions configures a Gateway.
type GatewayOptions struct {
	Session *discordgo.Session
	Handler MessageHandler
	Logger  *slog.Logger
}

// NewGateway creates a Gateway. Nothing is connected until Run.
func NewGateway(opts GatewayOptions) *Gateway {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{session: opts.Session, handler: opts.Handler, logger: logger.With("component", "gateway")}
}

// Run connects to the gateway and dispatches messages until ctx is canceled.
func (g *Gateway) Run(ctx context.Context) error {
	remove := g.session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		msg, ok := toChatMessage(m)
		if !ok {
			return
		}
		g.handler.Handle(ctx, msg)
	})
	defer remove()

	g.session.AddHandlerOnce(func(_ *discordgo.Session, r *discordgo.Ready) {
		g.logger.Info("gateway ready", "user", r.User.Username, "guilds", len(r.Guilds))
	})

	if err := g.session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	g.logger.Info("gateway connected")

	<-ctx.Done()

	if err := g.session.Close(); err != nil {
		g.logger.Warn("gateway close failed", "error", err)
	}
	g.logger.Info("gateway disconnected")
	return nil
}

// toChatMessage converts a gateway event. Direct messages are dropped.
func toChatMessage(m *discordgo.MessageCreate) (chat.Message, bool) {
	if m == nil || m.Message == nil || m.Author == nil || m.GuildID == "" {
		return chat.Message{}, false
	}
	return chat.Message{
		GuildID:    m.GuildID,
		ChannelID:  m.ChannelID,
		AuthorID:   m.Author.ID,
		AuthorName: displayName(m.Author),
		AuthorBot:  m.Author.Bot,
		Content:    m.Content,
	}, true
}
