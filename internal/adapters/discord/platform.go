// Package discord adapts a discordgo session to the guild directory, guild
// actions and chat gateway the services depend on.
package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/guildboard/guildboard/internal/domain/guild"
)

// userGuildsPageSize is the largest page the user-guilds endpoint returns.
const userGuildsPageSize = 200

// Platform implements ports.Platform on top of the Discord REST API.
// The session's state cache is disabled so every lookup reads live data.
type Platform struct {
	session *discordgo.Session
	timeout time.Duration

	mu    sync.Mutex
	botID string
}

// PlatformOptions configures a Platform.
type PlatformOptions struct {
	// Timeout bounds every remote call. Zero means no extra bound.
	Timeout time.Duration
	// HTTPClient replaces the session's REST client.
	HTTPClient *http.Client
}

// NewSession creates a bot session with the intents the chat commands need.
func NewSession(token string) (*discordgo.Session, error) {
	if token == "" {
		return nil, errors.New("discord bot token is required")
	}
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.StateEnabled = false
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent
	return s, nil
}

// NewPlatform wraps a session.
func NewPlatform(s *discordgo.Session, opts PlatformOptions) *Platform {
	if opts.HTTPClient != nil {
		s.Client = opts.HTTPClient
	}
	return &Platform{session: s, timeout: opts.Timeout}
}

func (p *Platform) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

// LookupGuild fetches the guild with its roles and channels.
func (p *Platform) LookupGuild(ctx context.Context, guildID string) (*guild.Guild, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	g, err := p.session.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, guildLookupError("get guild", err)
	}
	channels, err := p.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, guildLookupError("get guild channels", err)
	}
	return mapGuild(g, channels), nil
}

// LookupMember fetches one member of a guild.
func (p *Platform) LookupMember(ctx context.Context, guildID, userID string) (*guild.Member, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	m, err := p.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, remoteError("get guild member", err)
	}
	return mapMember(m), nil
}

// LookupUser fetches a user account.
func (p *Platform) LookupUser(ctx context.Context, userID string) (*guild.User, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	u, err := p.session.User(userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, remoteError("get user", err)
	}
	return mapUser(u), nil
}

// BotPermissions returns the bot's effective permissions in a channel.
func (p *Platform) BotPermissions(ctx context.Context, channelID string) (guild.Permission, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	botID, err := p.selfID(ctx)
	if err != nil {
		return 0, err
	}
	perms, err := p.session.UserChannelPermissions(botID, channelID, discordgo.WithContext(ctx))
	if err != nil {
		return 0, remoteError("get channel permissions", err)
	}
	return guild.Permission(perms), nil
}

// BotGuildIDs pages through every guild the bot account is in.
func (p *Platform) BotGuildIDs(ctx context.Context) (map[string]bool, error) {
	guilds, err := p.botGuilds(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(guilds))
	for _, g := range guilds {
		out[g.ID] = true
	}
	return out, nil
}

// BotStats counts the bot's guilds and their approximate members.
func (p *Platform) BotStats(ctx context.Context) (guild.BotStats, error) {
	guilds, err := p.botGuilds(ctx, true)
	if err != nil {
		return guild.BotStats{}, err
	}
	stats := guild.BotStats{Guilds: len(guilds)}
	for _, g := range guilds {
		stats.Members += g.ApproximateMemberCount
	}
	return stats, nil
}

// botGuilds pages through /users/@me/guilds. One deadline covers every page.
func (p *Platform) botGuilds(ctx context.Context, withCounts bool) ([]*discordgo.UserGuild, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	var out []*discordgo.UserGuild
	after := ""
	for {
		q := url.Values{"limit": {fmt.Sprint(userGuildsPageSize)}}
		if after != "" {
			q.Set("after", after)
		}
		if withCounts {
			q.Set("with_counts", "true")
		}
		body, err := p.session.RequestWithBucketID(
			http.MethodGet,
			discordgo.EndpointUserGuilds("@me")+"?"+q.Encode(),
			nil,
			discordgo.EndpointUserGuilds(""),
			discordgo.WithContext(ctx),
		)
		if err != nil {
			return nil, remoteError("list bot guilds", err)
		}
		var page []*discordgo.UserGuild
		if err = json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decode bot guilds: %w", err)
		}
		for _, g := range page {
			out = append(out, g)
			after = g.ID
		}
		if len(page) < userGuildsPageSize {
			return out, nil
		}
	}
}

// SendMessage posts plain text to a channel.
func (p *Platform) SendMessage(ctx context.Context, channelID, text string) error {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	if _, err := p.session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx)); err != nil {
		return remoteError("send message", err)
	}
	return nil
}

// SendEmbed posts a decorated message to a channel.
func (p *Platform) SendEmbed(ctx context.Context, channelID string, embed guild.Embed) error {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	if _, err := p.session.ChannelMessageSendEmbed(channelID, mapEmbed(embed), discordgo.WithContext(ctx)); err != nil {
		return remoteError("send embed", err)
	}
	return nil
}

// SendDirect opens (or reuses) the DM channel with userID and posts text to it.
func (p *Platform) SendDirect(ctx context.Context, userID, text string) error {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	ch, err := p.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return remoteError("open direct channel", err)
	}
	if _, err = p.session.ChannelMessageSend(ch.ID, text, discordgo.WithContext(ctx)); err != nil {
		return remoteError("send direct message", err)
	}
	return nil
}

// CreateInvite creates a permanent, unlimited invite to channelID.
func (p *Platform) CreateInvite(ctx context.Context, channelID string) (string, error) {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	inv, err := p.session.ChannelInviteCreate(channelID, discordgo.Invite{MaxAge: 0, MaxUses: 0}, discordgo.WithContext(ctx))
	if err != nil {
		return "", remoteError("create invite", err)
	}
	return inv.Code, nil
}

// RevokeInvite deletes an invite by code.
func (p *Platform) RevokeInvite(ctx context.Context, code string) error {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	if _, err := p.session.InviteDelete(code, discordgo.WithContext(ctx)); err != nil {
		return remoteError("revoke invite", err)
	}
	return nil
}

// AddMember joins userID to guildID with the user's OAuth2 token. The API
// answers 204 when the user is already a member, which is not an error.
func (p *Platform) AddMember(ctx context.Context, guildID, userID, accessToken string) error {
	ctx, cancel := p.bound(ctx)
	defer cancel()

	err := p.session.GuildMemberAdd(guildID, userID, &discordgo.GuildMemberAddParams{AccessToken: accessToken}, discordgo.WithContext(ctx))
	if err != nil {
		return remoteError("add guild member", err)
	}
	return nil
}

// selfID returns the bot's own user id, fetching it once.
func (p *Platform) selfID(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.botID != "" {
		return p.botID, nil
	}
	if p.session.State != nil && p.session.State.User != nil && p.session.State.User.ID != "" {
		p.botID = p.session.State.User.ID
		return p.botID, nil
	}
	u, err := p.session.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return "", remoteError("get bot user", err)
	}
	p.botID = u.ID
	return p.botID, nil
}
