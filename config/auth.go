package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses Discord OAuth2 for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains the Discord OAuth2 client configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	// RedirectURL overrides the callback URL derived from APP_DOMAIN.
	RedirectURL string   `env:"REDIRECT_URL"`
	Scopes      []string `env:"SCOPES"       envDefault:"identify guilds guilds.join" envSeparator:" "`
	AuthURL     string   `env:"AUTH_URL"     envDefault:"https://discord.com/oauth2/authorize"`
	TokenURL    string   `env:"TOKEN_URL"    envDefault:"https://discord.com/api/oauth2/token"`
	ProfileURL  string   `env:"PROFILE_URL"  envDefault:"https://discord.com/api/v10/users/@me"`
	GuildsURL   string   `env:"GUILDS_URL"   envDefault:"https://discord.com/api/v10/users/@me/guilds"`
	// Prompt is passed through to the authorization endpoint ("consent" or "none").
	Prompt string `env:"PROMPT" envDefault:"consent"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID      string `env:"USER_ID"      envDefault:"100000000000000001"`
	Username    string `env:"USERNAME"     envDefault:"dev-admin"`
	AccessToken string `env:"ACCESS_TOKEN" envDefault:""`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// Domain is the public origin of the dashboard, e.g. "https://guildboard.example".
	// It determines the OAuth2 callback URL and which Referer hosts count as same-site.
	Domain string `env:"APP_DOMAIN" envDefault:"http://localhost"`

	// UsingCustomDomain drops the listen port from the callback URL.
	UsingCustomDomain bool `env:"APP_USING_CUSTOM_DOMAIN" envDefault:"false"`

	// SessionTTL caps how long an authenticated session lives.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	// PendingTTL bounds anonymous sessions that only carry OAuth state and a return URL.
	PendingTTL time.Duration `env:"PENDING_SESSION_TTL" envDefault:"10m"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = 168 * time.Hour
	}
	if a.PendingTTL <= 0 {
		a.PendingTTL = 10 * time.Minute
	}
	if len(a.OAuth.Scopes) == 0 {
		a.OAuth.Scopes = []string{"identify", "guilds", "guilds.join"}
	}
}

// Validate reports configuration errors that must abort startup.
func (a AuthConfig) Validate() error {
	if _, err := a.DomainURL(); err != nil {
		return err
	}
	if a.Mode == AuthModeOAuth {
		if a.OAuth.ClientID == "" || a.OAuth.ClientSecret == "" {
			return errors.New("OAUTH_CLIENT_ID and OAUTH_CLIENT_SECRET are required when AUTH_MODE=oauth")
		}
	}
	return nil
}

// DomainURL parses the configured domain. A malformed domain is a fatal configuration error.
func (a AuthConfig) DomainURL() (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(a.Domain))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_DOMAIN %q: %w", a.Domain, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid APP_DOMAIN %q: scheme must be http or https", a.Domain)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("invalid APP_DOMAIN %q: missing host", a.Domain)
	}
	return u, nil
}

// CallbackURL returns the OAuth2 redirect URL registered with Discord.
// With a custom domain the callback lives at <scheme>://<host>/callback; otherwise
// the listen port is appended unless it is 80.
func (a AuthConfig) CallbackURL(port int) (string, error) {
	if a.OAuth.RedirectURL != "" {
		u, err := url.Parse(a.OAuth.RedirectURL)
		if err != nil || !u.IsAbs() {
			return "", fmt.Errorf("invalid OAUTH_REDIRECT_URL %q", a.OAuth.RedirectURL)
		}
		return a.OAuth.RedirectURL, nil
	}

	domain, err := a.DomainURL()
	if err != nil {
		return "", err
	}

	host := domain.Host
	if !a.UsingCustomDomain {
		host = domain.Hostname()
		if port != 80 {
			host += ":" + strconv.Itoa(port)
		}
	}
	return domain.Scheme + "://" + host + "/callback", nil
}
