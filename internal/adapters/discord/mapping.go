package discord

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/guildboard/guildboard/internal/domain/guild"
	apperrors "github.com/guildboard/guildboard/internal/errors"
)

func mapGuild(g *discordgo.Guild, channels []*discordgo.Channel) *guild.Guild {
	out := &guild.Guild{
		ID:      g.ID,
		Name:    g.Name,
		Icon:    g.Icon,
		OwnerID: g.OwnerID,
	}
	out.Roles = make([]guild.Role, 0, len(g.Roles))
	for _, r := range g.Roles {
		if r == nil {
			continue
		}
		out.Roles = append(out.Roles, guild.Role{ID: r.ID, Name: r.Name, Permissions: guild.Permission(r.Permissions)})
	}
	out.Channels = make([]guild.Channel, 0, len(channels))
	for _, c := range channels {
		if c == nil {
			continue
		}
		out.Channels = append(out.Channels, guild.Channel{ID: c.ID, Name: c.Name, Kind: channelKind(c.Type)})
	}
	return out
}

func channelKind(t discordgo.ChannelType) guild.ChannelKind {
	switch t {
	case discordgo.ChannelTypeGuildText:
		return guild.ChannelKindText
	case discordgo.ChannelTypeGuildNews:
		return guild.ChannelKindNews
	case discordgo.ChannelTypeGuildVoice, discordgo.ChannelTypeGuildStageVoice:
		return guild.ChannelKindVoice
	case discordgo.ChannelTypeGuildCategory:
		return guild.ChannelKindCategory
	default:
		return guild.ChannelKindOther
	}
}

func mapMember(m *discordgo.Member) *guild.Member {
	out := &guild.Member{RoleIDs: append([]string(nil), m.Roles...)}
	if m.User != nil {
		out.UserID = m.User.ID
		out.Username = displayName(m.User)
		out.Bot = m.User.Bot
	}
	return out
}

func mapUser(u *discordgo.User) *guild.User {
	return &guild.User{ID: u.ID, Username: displayName(u), Bot: u.Bot}
}

func displayName(u *discordgo.User) string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

func mapEmbed(e guild.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	for _, f := range e.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	return out
}

// remoteError tags err with op and classifies it by the REST status Discord returned.
func remoteError(op string, err error) error {
	status := 0
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		status = restErr.Response.StatusCode
	}
	return apperrors.MapRemoteError(fmt.Errorf("%s: %w", op, err), status)
}

// guildLookupError classifies a failed guild fetch. Discord answers 403 Missing
// Access for a guild the bot is not in and 400 Invalid Form Body for an id that
// is not a snowflake; both mean the guild does not exist for us.
func guildLookupError(op string, err error) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil && restErr.Message != nil {
		status, code := restErr.Response.StatusCode, restErr.Message.Code
		if (status == http.StatusForbidden && code == discordgo.ErrCodeMissingAccess) ||
			(status == http.StatusBadRequest && code == discordgo.ErrCodeInvalidFormBody) {
			return apperrors.Wrap(fmt.Errorf("%s: %w", op, err), apperrors.ErrCodeNotFound, "Unknown guild")
		}
	}
	return remoteError(op, err)
}
