package ports

import (
	"context"

	"github.com/guildboard/guildboard/internal/domain/guild"
)

// GuildDirectory reads live guild state from the remote platform. Lookups that
// find nothing return an error for which errors.IsNotFound is true. Nothing
// behind this interface may cache results used for authorization.
type GuildDirectory interface {
	LookupGuild(ctx context.Context, guildID string) (*guild.Guild, error)
	LookupMember(ctx context.Context, guildID, userID string) (*guild.Member, error)
	LookupUser(ctx context.Context, userID string) (*guild.User, error)
	// BotPermissions returns the bot account's effective permissions in a channel.
	BotPermissions(ctx context.Context, channelID string) (guild.Permission, error)
	// BotGuildIDs returns the ids of every guild the bot account is in.
	BotGuildIDs(ctx context.Context) (map[string]bool, error)
}

// GuildActions mutates remote state on behalf of the bot account.
type GuildActions interface {
	SendMessage(ctx context.Context, channelID, text string) error
	SendEmbed(ctx context.Context, channelID string, embed guild.Embed) error
	SendDirect(ctx context.Context, userID, text string) error
	// CreateInvite creates a non-expiring invite in the channel and returns its code.
	CreateInvite(ctx context.Context, channelID string) (string, error)
	RevokeInvite(ctx context.Context, code string) error
	// AddMember joins userID to the guild using the user's own OAuth2 access token.
	AddMember(ctx context.Context, guildID, userID, accessToken string) error
}

// StatsSource reports aggregate numbers about the bot account.
type StatsSource interface {
	BotStats(ctx context.Context) (guild.BotStats, error)
}

// Platform is the full remote capability used by the services.
type Platform interface {
	GuildDirectory
	GuildActions
	StatsSource
}
