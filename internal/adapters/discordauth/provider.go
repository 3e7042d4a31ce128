// Package discordauth implements the OAuth2 authorization-code flow against
// Discord and the profile and guild-list lookups made with the user's token.
package discordauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	domainauth "github.com/guildboard/guildboard/internal/domain/auth"
	"github.com/guildboard/guildboard/internal/domain/guild"
	apperrors "github.com/guildboard/guildboard/internal/errors"
	"github.com/guildboard/guildboard/internal/ports"
)

// Provider implements ports.AuthProvider and ports.UserGuildLister using Discord OAuth2.
type Provider struct {
	config     *oauth2.Config
	profileURL string
	guildsURL  string
	prompt     string
	httpClient *http.Client
}

// ProviderConfig holds configuration for the Discord provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	AuthURL      string
	TokenURL     string
	ProfileURL   string
	GuildsURL    string
	Prompt       string
	HTTPClient   *http.Client // Optional, defaults to a client with a 30s timeout
}

// NewProvider creates a new Discord provider.
func NewProvider(cfg ProviderConfig) (*Provider, error) {
	switch {
	case cfg.ClientID == "":
		return nil, errors.New("client ID is required")
	case cfg.ClientSecret == "":
		return nil, errors.New("client secret is required")
	case cfg.RedirectURL == "":
		return nil, errors.New("redirect URL is required")
	case cfg.AuthURL == "" || cfg.TokenURL == "":
		return nil, errors.New("auth and token URLs are required")
	case cfg.ProfileURL == "":
		return nil, errors.New("profile URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		profileURL: cfg.ProfileURL,
		guildsURL:  cfg.GuildsURL,
		prompt:     cfg.Prompt,
		httpClient: httpClient,
	}, nil
}

// Begin returns the Discord authorization URL carrying the given state.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, error) {
	if in.State == "" {
		return "", errors.New("state is required")
	}
	opts := []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("response_type", "code")}
	if p.prompt != "" {
		opts = append(opts, oauth2.SetAuthURLParam("prompt", p.prompt))
	}
	return p.config.AuthCodeURL(in.State, opts...), nil
}

// Exchange trades the code for a token and fetches the user's profile with it.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if in.Code == "" {
		return domainauth.Identity{}, errors.New("authorization code is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	var prof profile
	if err = p.getJSON(ctx, p.profileURL, token.AccessToken, &prof); err != nil {
		return domainauth.Identity{}, fmt.Errorf("get profile: %w", err)
	}
	if prof.ID == "" {
		return domainauth.Identity{}, errors.New("profile response missing user id")
	}

	expiresAt := time.Now().Add(time.Hour)
	if !token.Expiry.IsZero() {
		expiresAt = token.Expiry
	}

	return domainauth.Identity{
		UserID:      prof.ID,
		Username:    firstNonEmpty(prof.GlobalName, prof.Username),
		Avatar:      prof.Avatar,
		AccessToken: token.AccessToken,
		ExpiresAt:   expiresAt,
	}, nil
}

// UserGuilds lists the guilds the token's owner belongs to.
func (p *Provider) UserGuilds(ctx context.Context, accessToken string) ([]guild.Summary, error) {
	if p.guildsURL == "" {
		return nil, errors.New("guilds URL is not configured")
	}
	var raw []partialGuild
	if err := p.getJSON(ctx, p.guildsURL, accessToken, &raw); err != nil {
		return nil, fmt.Errorf("get user guilds: %w", err)
	}
	out := make([]guild.Summary, 0, len(raw))
	for _, g := range raw {
		out = append(out, g.summary())
	}
	return out, nil
}

type profile struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
	Avatar     string `json:"avatar"`
}

type partialGuild struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Owner       bool   `json:"owner"`
	Permissions string `json:"permissions"`
}

func (g partialGuild) summary() guild.Summary {
	// Permissions are serialized as a decimal string; an unparsable value grants nothing.
	perms, _ := strconv.ParseUint(g.Permissions, 10, 64)
	return guild.Summary{
		ID:          g.ID,
		Name:        g.Name,
		Icon:        g.Icon,
		Owner:       g.Owner,
		Permissions: guild.Permission(perms),
	}
}

func (p *Provider) getJSON(ctx context.Context, url, accessToken string, dst any) error {
	client := oauth2.NewClient(
		context.WithValue(ctx, oauth2.HTTPClient, p.httpClient),
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return apperrors.MapRemoteError(err, 0)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperrors.MapRemoteError(fmt.Errorf("status %d: %s", resp.StatusCode, body), resp.StatusCode)
	}
	if err = json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
