package discordauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildboard/guildboard/internal/domain/guild"
	apperrors "github.com/guildboard/guildboard/internal/errors"
	"github.com/guildboard/guildboard/internal/ports"
)

type fakeDiscord struct {
	*httptest.Server
	lastCode string
}

func newFakeDiscord(t *testing.T) *fakeDiscord {
	t.Helper()
	fd := &fakeDiscord{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		fd.lastCode = r.PostForm.Get("code")
		if fd.lastCode != "good" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-123",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("GET /users/@me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "42", "username": "alice", "global_name": "Alice", "avatar": "abc",
		})
	})
	mux.HandleFunc("GET /users/@me/guilds", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": "g1", "name": "Owned", "owner": true, "permissions": "0"},
			{"id": "g2", "name": "Managed", "permissions": "32"},
			{"id": "g3", "name": "Visitor", "permissions": "1024"},
		})
	})
	fd.Server = httptest.NewServer(mux)
	t.Cleanup(fd.Close)
	return fd
}

func newTestProvider(t *testing.T, fd *fakeDiscord) *Provider {
	t.Helper()
	p, err := NewProvider(ProviderConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8080/callback",
		Scopes:       []string{"identify", "guilds", "guilds.join"},
		AuthURL:      fd.URL + "/authorize",
		TokenURL:     fd.URL + "/token",
		ProfileURL:   fd.URL + "/users/@me",
		GuildsURL:    fd.URL + "/users/@me/guilds",
		Prompt:       "consent",
		HTTPClient:   fd.Client(),
	})
	require.NoError(t, err)
	return p
}

func TestNewProvider_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		config ProviderConfig
		errMsg string
	}{
		{"missing client ID", ProviderConfig{ClientSecret: "s"}, "client ID is required"},
		{"missing client secret", ProviderConfig{ClientID: "c"}, "client secret is required"},
		{"missing redirect URL", ProviderConfig{ClientID: "c", ClientSecret: "s"}, "redirect URL is required"},
		{
			"missing endpoints",
			ProviderConfig{ClientID: "c", ClientSecret: "s", RedirectURL: "http://x/callback"},
			"auth and token URLs are required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(tt.config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestProvider_Begin(t *testing.T) {
	fd := newFakeDiscord(t)
	p := newTestProvider(t, fd)

	authURL, err := p.Begin(context.Background(), ports.BeginInput{State: "st-1"})
	require.NoError(t, err)

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "/authorize", u.Path)
	assert.Equal(t, "client", q.Get("client_id"))
	assert.Equal(t, "st-1", q.Get("state"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "identify guilds guilds.join", q.Get("scope"))
	assert.Equal(t, "http://localhost:8080/callback", q.Get("redirect_uri"))

	_, err = p.Begin(context.Background(), ports.BeginInput{})
	assert.Error(t, err)
}

func TestProvider_Exchange(t *testing.T) {
	fd := newFakeDiscord(t)
	p := newTestProvider(t, fd)

	id, err := p.Exchange(context.Background(), ports.ExchangeInput{Code: "good"})
	require.NoError(t, err)
	assert.Equal(t, "good", fd.lastCode)
	assert.Equal(t, "42", id.UserID)
	assert.Equal(t, "Alice", id.Username)
	assert.Equal(t, "abc", id.Avatar)
	assert.Equal(t, "tok-123", id.AccessToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), id.ExpiresAt, time.Minute)
}

func TestProvider_Exchange_Failures(t *testing.T) {
	fd := newFakeDiscord(t)
	p := newTestProvider(t, fd)

	_, err := p.Exchange(context.Background(), ports.ExchangeInput{})
	assert.Error(t, err)

	_, err = p.Exchange(context.Background(), ports.ExchangeInput{Code: "bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exchange code for token")
}

func TestProvider_UserGuilds(t *testing.T) {
	fd := newFakeDiscord(t)
	p := newTestProvider(t, fd)

	guilds, err := p.UserGuilds(context.Background(), "tok-123")
	require.NoError(t, err)
	require.Len(t, guilds, 3)

	assert.Equal(t, guild.Summary{ID: "g1", Name: "Owned", Owner: true}, guilds[0])
	assert.True(t, guilds[0].Manageable())
	assert.True(t, guilds[1].Manageable())
	assert.False(t, guilds[2].Manageable())
	assert.Equal(t, guild.PermissionViewChannel, guilds[2].Permissions)
}

func TestProvider_UserGuilds_RejectedToken(t *testing.T) {
	fd := newFakeDiscord(t)
	p := newTestProvider(t, fd)

	_, err := p.UserGuilds(context.Background(), "expired")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthenticated(err))
}
