package config

import (
	"reflect"
	"strings"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:     "single service - http",
			input:    "http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:     "single service - chat",
			input:    "chat",
			expected: map[ServiceMode]bool{ServiceModeChat: true},
		},
		{
			name:     "both services with spaces",
			input:    " http , chat ",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true, ServiceModeChat: true},
		},
		{
			name:     "duplicate services",
			input:    "http,http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{name: "empty string", input: "", expectError: true},
		{name: "only commas", input: ",,", expectError: true},
		{name: "unknown service", input: "http,scheduler", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseServices(tt.input)
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ParseServices(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestConfig_ServiceEnabledMethods(t *testing.T) {
	cfg := AppConfig{Services: "chat"}
	if cfg.IsHTTPServerEnabled() {
		t.Error("http should be disabled")
	}
	if !cfg.IsChatListenerEnabled() {
		t.Error("chat should be enabled")
	}

	invalid := AppConfig{Services: "bogus"}
	if invalid.IsHTTPServerEnabled() || invalid.IsChatListenerEnabled() {
		t.Error("invalid services string should enable nothing")
	}
}

func TestAppConfig_ParseEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "oauth")
	t.Setenv("OAUTH_CLIENT_ID", "app-client")
	t.Setenv("OAUTH_CLIENT_SECRET", "super-secret")
	t.Setenv("APP_DOMAIN", "https://guildboard.example")
	t.Setenv("APP_USING_CUSTOM_DOMAIN", "true")
	t.Setenv("DISCORD_BOT_TOKEN", "bot-token")
	t.Setenv("DISCORD_RELAY_CHANNEL_ID", "42")
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REMOTE_TIMEOUT", "3s")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Auth.Mode != AuthModeOAuth {
		t.Errorf("mode = %q", cfg.Auth.Mode)
	}
	if want := []string{"identify", "guilds", "guilds.join"}; !reflect.DeepEqual(cfg.Auth.OAuth.Scopes, want) {
		t.Errorf("scopes = %v, want %v", cfg.Auth.OAuth.Scopes, want)
	}
	if cfg.Discord.BotToken != "bot-token" || cfg.Discord.RelayChannelID != "42" {
		t.Errorf("discord config = %#v", cfg.Discord)
	}
	if cfg.Discord.CommandPrefix != "." {
		t.Errorf("prefix = %q, want .", cfg.Discord.CommandPrefix)
	}
	if cfg.Store.Backend != StoreBackendRedis {
		t.Errorf("backend = %q", cfg.Store.Backend)
	}
	if cfg.RemoteTimeout != 3*time.Second {
		t.Errorf("remote timeout = %v", cfg.RemoteTimeout)
	}
	if err := cfg.Auth.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestAuthConfig_ValidateRequiresClientInOAuthMode(t *testing.T) {
	cfg := AuthConfig{Mode: AuthModeOAuth, Domain: "http://localhost"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected missing client credentials to fail validation")
	}

	cfg.Mode = AuthModeMock
	if err := cfg.Validate(); err != nil {
		t.Fatalf("mock mode should not need client credentials: %v", err)
	}
}

func TestAuthConfig_CallbackURL(t *testing.T) {
	tests := []struct {
		name    string
		cfg     AuthConfig
		port    int
		want    string
		wantErr bool
	}{
		{
			name: "port appended",
			cfg:  AuthConfig{Domain: "http://localhost"},
			port: 8080,
			want: "http://localhost:8080/callback",
		},
		{
			name: "port 80 omitted",
			cfg:  AuthConfig{Domain: "http://example.com"},
			port: 80,
			want: "http://example.com/callback",
		},
		{
			name: "custom domain ignores listen port",
			cfg:  AuthConfig{Domain: "https://dash.example.com", UsingCustomDomain: true},
			port: 3000,
			want: "https://dash.example.com/callback",
		},
		{
			name: "domain port replaced by listen port",
			cfg:  AuthConfig{Domain: "http://example.com:9999"},
			port: 8080,
			want: "http://example.com:8080/callback",
		},
		{
			name: "explicit redirect wins",
			cfg:  AuthConfig{Domain: "http://localhost", OAuth: OAuthConfig{RedirectURL: "https://x.example/cb"}},
			port: 8080,
			want: "https://x.example/cb",
		},
		{name: "missing scheme", cfg: AuthConfig{Domain: "example.com"}, port: 80, wantErr: true},
		{name: "garbage", cfg: AuthConfig{Domain: "://"}, port: 80, wantErr: true},
		{name: "relative redirect", cfg: AuthConfig{Domain: "http://a", OAuth: OAuthConfig{RedirectURL: "/cb"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.CallbackURL(tt.port)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CallbackURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDiscordConfig_SanitizePrefix(t *testing.T) {
	d := DiscordConfig{CommandPrefix: "!!"}
	d.Sanitize()
	if d.CommandPrefix != "." {
		t.Errorf("multi-character prefix should reset to '.', got %q", d.CommandPrefix)
	}

	d = DiscordConfig{CommandPrefix: " ! "}
	d.Sanitize()
	if d.CommandPrefix != "!" {
		t.Errorf("prefix = %q, want !", d.CommandPrefix)
	}
}

func TestHTTPConfig_ListenAddr(t *testing.T) {
	h := HTTPConfig{Port: 3000}
	if got := h.ListenAddr(); got != ":3000" {
		t.Errorf("ListenAddr() = %q", got)
	}
	h.Addr = "127.0.0.1:9000"
	if got := h.ListenAddr(); got != "127.0.0.1:9000" {
		t.Errorf("ListenAddr() = %q", got)
	}
}

func TestDiscordConfig_InstallURL(t *testing.T) {
	d := DiscordConfig{InstallPermissions: 8}
	got := d.InstallURL("app-client")
	want := "https://discord.com/oauth2/authorize?client_id=app-client&permissions=8&scope=bot+applications.commands"
	if got != want {
		t.Errorf("InstallURL() = %q, want %q", got, want)
	}

	d.ClientID = "bot-app"
	if got = d.InstallURL("app-client"); !strings.Contains(got, "client_id=bot-app") {
		t.Errorf("explicit client id should win, got %q", got)
	}
}
