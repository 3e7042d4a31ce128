// Package listing holds the public server-list entry and the transient abuse
// report built from it.
package listing

import (
	"fmt"
	"time"

	"github.com/guildboard/guildboard/internal/domain/guild"
)

// InviteBaseURL prefixes invite codes to form shareable links.
const InviteBaseURL = "https://discord.gg/"

// Entry is a published association between a guild and a public invite code.
// At most one entry exists per guild id.
type Entry struct {
	GuildID    string    `json:"guild_id"`
	InviteCode string    `json:"invite_code"`
	CreatedAt  time.Time `json:"created_at"`
}

// InviteURL returns the public invite link for the entry.
func (e Entry) InviteURL() string { return InviteURL(e.InviteCode) }

// InviteURL returns the public invite link for an invite code.
func InviteURL(code string) string { return InviteBaseURL + code }

// RegistrationNotice is the relay channel message announcing a new listing.
func RegistrationNotice(guildName, inviteCode string) string {
	return fmt.Sprintf("Another guild registered on the servers list. Invite: %s Guild name: %s",
		InviteURL(inviteCode), guildName)
}

// Report is an abuse report about a listed guild. It is never persisted.
type Report struct {
	GuildID      string
	GuildName    string
	ReporterID   string
	ReporterName string
	Text         string
	InviteCode   string
}

// Acknowledgement is the direct message sent back to the reporter.
func (r Report) Acknowledgement() string {
	return fmt.Sprintf("Hey %s, we received your report about %s. Thanks for reporting! "+
		"Our staff will let you know the result once it has been reviewed.", r.ReporterName, r.GuildName)
}

// Embed renders the report for the relay channel.
func (r Report) Embed() guild.Embed {
	return guild.Embed{
		Title: "Server Report",
		Color: 0xed4245,
		Fields: []guild.EmbedField{
			{Name: "Guild Name", Value: r.GuildName},
			{Name: "Reporter", Value: fmt.Sprintf("%s || %s", r.ReporterID, r.ReporterName)},
			{Name: "Report", Value: r.Text},
			{Name: "Reported Server Link", Value: InviteURL(r.InviteCode)},
		},
	}
}
