package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Identity represents the authenticated user returned by the identity provider.
// Adapters map provider-specific profile fields into this shape.
type Identity struct {
	UserID      string // Discord snowflake
	Username    string
	Avatar      string
	AccessToken string    // bearer token, needed to add the user to a guild
	ExpiresAt   time.Time // absolute expiry of the access token
}

// Principal is the authenticated actor attached to a session.
type Principal struct {
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Avatar      string    `json:"avatar,omitempty"`
	AccessToken string    `json:"access_token"`
	TokenExpiry time.Time `json:"token_expiry"`
}

// Session is the server-side record persisted per browser.
// A session exists before login completes so the pending OAuth state and
// return URL survive the provider round trip; Principal is nil until then.
type Session struct {
	ID         string     `json:"id"`
	Principal  *Principal `json:"principal,omitempty"`
	OAuthState string     `json:"oauth_state,omitempty"`
	ReturnURL  string     `json:"return_url,omitempty"`
	ExpiresAt  time.Time  `json:"expires_at"`
}

// Authenticated reports whether login has completed for this session.
func (s Session) Authenticated() bool { return s.Principal != nil && s.Principal.UserID != "" }

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool { return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt) }

// PrincipalFromIdentity maps a provider identity to a session principal.
func PrincipalFromIdentity(id Identity) *Principal {
	return &Principal{
		UserID:      id.UserID,
		Username:    id.Username,
		Avatar:      id.Avatar,
		AccessToken: id.AccessToken,
		TokenExpiry: id.ExpiresAt,
	}
}
