package ports

// Package ports defines interfaces (hexagonal ports) between the services and the
// outside world. Implementations live in internal/adapters and internal/data;
// orchestration in internal/service.

import (
	"context"

	domainauth "github.com/guildboard/guildboard/internal/domain/auth"
	"github.com/guildboard/guildboard/internal/domain/guild"
)

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	// State is the opaque anti-forgery value echoed back on the callback.
	State string
}

// AuthProvider initiates and completes an OAuth2 authorization-code flow.
type AuthProvider interface {
	// Begin returns the provider authorization URL for the given state.
	Begin(ctx context.Context, in BeginInput) (authURL string, err error)

	// Exchange trades the authorization code for an access token and returns the identity behind it.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code string
}

// UserGuildLister lists the guilds a user belongs to, as reported by the
// identity provider for the user's own access token.
type UserGuildLister interface {
	UserGuilds(ctx context.Context, accessToken string) ([]guild.Summary, error)
}

// SessionStore persists and retrieves sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}
