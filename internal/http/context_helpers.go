package httpx

import (
	"context"

	domainauth "github.com/guildboard/guildboard/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
type sessionKey struct{}

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the session from context and a boolean indicating presence.
func GetSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && session != nil {
		return session, true
	}
	return nil, false
}

// PrincipalFromContext returns the logged-in principal, or nil for anonymous requests.
func PrincipalFromContext(ctx context.Context) *domainauth.Principal {
	if s, ok := GetSessionFromContext(ctx); ok && s.Authenticated() {
		return s.Principal
	}
	return nil
}
