package devauth

// Package devauth provides a simple, config-driven AuthProvider for local development.

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"time"

	domainauth "github.com/guildboard/guildboard/internal/domain/auth"
	"github.com/guildboard/guildboard/internal/domain/guild"
	apperrors "github.com/guildboard/guildboard/internal/errors"
	"github.com/guildboard/guildboard/internal/ports"
)

// Config controls the dev auth provider behavior.
// UserID and Username are required.
type Config struct {
	UserID          string
	Username        string
	AccessToken     string
	SessionDuration time.Duration // default 8h when zero

	// Directory, when set, answers UserGuilds from live guild state instead of Guilds.
	Directory ports.GuildDirectory
	Guilds    []guild.Summary
}

// Provider implements ports.AuthProvider and ports.UserGuildLister for local development.
// It short-circuits the OAuth flow by redirecting straight back to our own callback.
// Exchange ignores the code and returns the configured identity.
type Provider struct {
	identity        domainauth.Identity
	sessionDuration time.Duration
	directory       ports.GuildDirectory
	guilds          []guild.Summary
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Username == "" {
		return nil, errors.New("dev auth: Username is required")
	}
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	return &Provider{
		identity: domainauth.Identity{
			UserID:      cfg.UserID,
			Username:    cfg.Username,
			AccessToken: cfg.AccessToken,
			ExpiresAt:   time.Now().Add(dur),
		},
		sessionDuration: dur,
		directory:       cfg.Directory,
		guilds:          append([]guild.Summary(nil), cfg.Guilds...),
	}, nil
}

// Begin returns the local callback URL carrying the given state.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, error) {
	if in.State == "" {
		return "", errors.New("state is required")
	}
	q := url.Values{"code": {"dev"}, "state": {in.State}}
	return "/callback?" + q.Encode(), nil
}

// Exchange ignores the provided code (state validation happens in the auth service) and returns the dev identity.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
	id := p.identity
	// Refresh expiry on each exchange for convenience
	if time.Until(id.ExpiresAt) < 5*time.Minute {
		id.ExpiresAt = time.Now().Add(p.sessionDuration)
	}
	return id, nil
}

// UserGuilds lists guilds for the dev identity. With a Directory it reports every
// guild the bot is in where the dev user is a member, with live permissions.
func (p *Provider) UserGuilds(ctx context.Context, _ string) ([]guild.Summary, error) {
	if p.directory == nil {
		return append([]guild.Summary(nil), p.guilds...), nil
	}

	ids, err := p.directory.BotGuildIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]guild.Summary, 0, len(ids))
	for id := range ids {
		g, err := p.directory.LookupGuild(ctx, id)
		if err != nil {
			if apperrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		m, err := p.directory.LookupMember(ctx, id, p.identity.UserID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		out = append(out, guild.Summary{
			ID:          g.ID,
			Name:        g.Name,
			Icon:        g.Icon,
			Owner:       g.OwnerID == m.UserID,
			Permissions: guild.MemberPermissions(g, m),
			BotPresent:  true,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
