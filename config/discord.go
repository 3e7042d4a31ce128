package config

import (
	"net/url"
	"strconv"
	"strings"
)

// DiscordConfig contains the bot account configuration.
type DiscordConfig struct {
	// BotToken authenticates the bot account used for lookups, sends and the gateway.
	BotToken string `env:"BOT_TOKEN"`

	// ClientID is the application id used to build the bot install URL.
	// Falls back to OAUTH_CLIENT_ID when empty.
	ClientID string `env:"CLIENT_ID"`

	// CommandPrefix is the single character that starts a chat command.
	CommandPrefix string `env:"PREFIX" envDefault:"."`

	// RelayChannelID receives registration notices and abuse reports.
	RelayChannelID string `env:"RELAY_CHANNEL_ID" envDefault:"836463197408985118"`

	// SupportURL is where /support redirects.
	SupportURL string `env:"SUPPORT_URL" envDefault:"https://discord.com"`

	// InstallPermissions is the permission integer requested by /invite.
	InstallPermissions int64 `env:"INSTALL_PERMISSIONS" envDefault:"8"`
}

// Sanitize applies guardrails to Discord configuration values.
func (d *DiscordConfig) Sanitize() {
	d.CommandPrefix = strings.TrimSpace(d.CommandPrefix)
	if len(d.CommandPrefix) != 1 {
		d.CommandPrefix = "."
	}
	if d.InstallPermissions < 0 {
		d.InstallPermissions = 0
	}
}

// InstallURL returns the OAuth2 URL that adds the bot to a guild. fallbackClientID
// is used when CLIENT_ID is unset.
func (d DiscordConfig) InstallURL(fallbackClientID string) string {
	clientID := d.ClientID
	if clientID == "" {
		clientID = fallbackClientID
	}
	q := url.Values{
		"client_id":   {clientID},
		"scope":       {"bot applications.commands"},
		"permissions": {strconv.FormatInt(d.InstallPermissions, 10)},
	}
	return "https://discord.com/oauth2/authorize?" + q.Encode()
}
