package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/guildboard/guildboard/internal/domain/guild"
	apperrors "github.com/guildboard/guildboard/internal/errors"
	"github.com/guildboard/guildboard/internal/ports"
	"github.com/guildboard/guildboard/internal/service"
)

// Reply texts.
const (
	ReplyNeedManageGuild = "You need `MANAGE GUILD` to configure the servers list settings!"
	ReplyRegistered      = "Done! Your server is now visible in the public servers list."
	ReplyNotPublished    = "You haven't published your server yet, publish it first."
	ReplyRemoved         = "Done! Removed this server from the servers list."
	ReplyTransient       = "Something went wrong talking to Discord, try again."
)

// HandlerFunc runs one command and returns the reply text. An empty reply sends nothing.
type HandlerFunc func(ctx context.Context, msg Message, cmd Command) (string, error)

// ListenerOptions groups dependencies for Listener.
type ListenerOptions struct {
	Prefix    string
	Guard     *service.Guard
	Listings  *service.ListingService
	Directory ports.GuildDirectory
	Actions   ports.GuildActions
	Logger    *slog.Logger
}

// Listener dispatches chat commands through the same guard and listing
// service the web dashboard uses.
type Listener struct {
	prefix    string
	guard     *service.Guard
	listings  *service.ListingService
	directory ports.GuildDirectory
	actions   ports.GuildActions
	logger    *slog.Logger
	handlers  map[string]HandlerFunc
}

// NewListener constructs a Listener with the built-in commands registered.
func NewListener(opts ListenerOptions) (*Listener, error) {
	if opts.Guard == nil || opts.Listings == nil {
		return nil, errors.New("guard and listing service are required")
	}
	if opts.Directory == nil || opts.Actions == nil {
		return nil, errors.New("guild directory and actions are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	l := &Listener{
		prefix:    prefix,
		guard:     opts.Guard,
		listings:  opts.Listings,
		directory: opts.Directory,
		actions:   opts.Actions,
		logger:    logger.With("component", "chat"),
		handlers:  make(map[string]HandlerFunc),
	}
	l.handlers["setup-list"] = l.handleSetupList
	l.handlers["remove-list"] = l.handleRemoveList
	return l, nil
}

// Handle processes one message. Messages from automated accounts, messages
// outside a guild, lines without the prefix and unknown commands are dropped
// without a reply, as is everything in a channel the bot cannot write to.
func (l *Listener) Handle(ctx context.Context, msg Message) {
	if msg.AuthorBot || msg.GuildID == "" {
		return
	}
	cmd, ok := Parse(l.prefix, msg.Content)
	if !ok {
		return
	}
	h, ok := l.handlers[cmd.Name]
	if !ok {
		l.logger.DebugContext(ctx, "unknown command dropped", "guild_id", msg.GuildID, "command", cmd.Name)
		return
	}

	perms, err := l.directory.BotPermissions(ctx, msg.ChannelID)
	if err != nil {
		l.logger.WarnContext(ctx, "bot permission lookup failed",
			"guild_id", msg.GuildID, "channel_id", msg.ChannelID, "error", err)
		return
	}
	if !perms.Has(guild.PermissionSendMessages) {
		l.logger.DebugContext(ctx, "command dropped, cannot reply in channel",
			"guild_id", msg.GuildID, "channel_id", msg.ChannelID, "command", cmd.Name)
		return
	}

	reply, err := h(ctx, msg, cmd)
	if err != nil {
		l.logger.WarnContext(ctx, "command failed",
			"guild_id", msg.GuildID, "channel_id", msg.ChannelID, "command", cmd.Name, "error", err)
		reply = ReplyTransient
	}
	if reply == "" {
		return
	}
	if err = l.actions.SendMessage(ctx, msg.ChannelID, mention(msg.AuthorID, reply)); err != nil {
		l.logger.WarnContext(ctx, "reply failed",
			"guild_id", msg.GuildID, "channel_id", msg.ChannelID, "command", cmd.Name, "error", err)
	}
}

func (l *Listener) handleSetupList(ctx context.Context, msg Message, _ Command) (string, error) {
	v, err := l.guard.Authorize(ctx, msg.AuthorID, msg.GuildID)
	if err != nil {
		return "", err
	}
	if !v.Granted {
		return ReplyNeedManageGuild, nil
	}

	_, err = l.listings.Register(ctx, service.RegisterInput{
		GuildID:   v.Guild.ID,
		GuildName: v.Guild.Name,
		ChannelID: msg.ChannelID,
	})
	switch {
	case err == nil:
		return ReplyRegistered, nil
	case errors.Is(err, service.ErrAlreadyRegistered):
		return apperrors.UserMessage(err, ""), nil
	default:
		return "", fmt.Errorf("register listing: %w", err)
	}
}

func (l *Listener) handleRemoveList(ctx context.Context, msg Message, _ Command) (string, error) {
	v, err := l.guard.Authorize(ctx, msg.AuthorID, msg.GuildID)
	if err != nil {
		return "", err
	}
	if !v.Granted {
		return ReplyNeedManageGuild, nil
	}

	err = l.listings.Deregister(ctx, msg.GuildID)
	switch {
	case err == nil:
		return ReplyRemoved, nil
	case errors.Is(err, service.ErrNotRegistered):
		return ReplyNotPublished, nil
	default:
		return "", fmt.Errorf("deregister listing: %w", err)
	}
}

func mention(userID, text string) string {
	return fmt.Sprintf("<@%s> %s", userID, text)
}
