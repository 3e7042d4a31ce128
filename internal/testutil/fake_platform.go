package testutil

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/guildboard/guildboard/internal/domain/guild"
	apperrors "github.com/guildboard/guildboard/internal/errors"
)

// Operation names accepted by FakePlatform.FailOn.
const (
	OpLookupGuild    = "LookupGuild"
	OpLookupMember   = "LookupMember"
	OpLookupUser     = "LookupUser"
	OpBotPermissions = "BotPermissions"
	OpBotGuildIDs    = "BotGuildIDs"
	OpBotStats       = "BotStats"
	OpSendMessage    = "SendMessage"
	OpSendEmbed      = "SendEmbed"
	OpSendDirect     = "SendDirect"
	OpCreateInvite   = "CreateInvite"
	OpRevokeInvite   = "RevokeInvite"
	OpAddMember      = "AddMember"
)

// SentMessage is a plain message recorded by FakePlatform.
type SentMessage struct {
	Target string
	Text   string
}

// SentEmbed is a decorated message recorded by FakePlatform.
type SentEmbed struct {
	ChannelID string
	Embed     guild.Embed
}

// AddedMember records one AddMember call.
type AddedMember struct {
	GuildID     string
	UserID      string
	AccessToken string
}

// FakePlatform is an in-memory remote platform. State can be changed between
// calls to simulate membership or role changes; every lookup reads the current
// state. It is safe for concurrent use.
type FakePlatform struct {
	mu sync.Mutex

	guilds  map[string]*guild.Guild
	members map[string]map[string]*guild.Member
	users   map[string]*guild.User

	botPerms        map[string]guild.Permission
	defaultBotPerms guild.Permission

	failures map[string]error

	sent      []SentMessage
	embeds    []SentEmbed
	directs   []SentMessage
	invites   map[string]string
	revoked   []string
	added     []AddedMember
	inviteSeq int
}

// NewFakePlatform returns an empty platform where the bot may post anywhere.
func NewFakePlatform() *FakePlatform {
	return &FakePlatform{
		guilds:          map[string]*guild.Guild{},
		members:         map[string]map[string]*guild.Member{},
		users:           map[string]*guild.User{},
		botPerms:        map[string]guild.Permission{},
		defaultBotPerms: guild.PermissionAll,
		failures:        map[string]error{},
		invites:         map[string]string{},
	}
}

// PutGuild adds or replaces a guild.
func (f *FakePlatform) PutGuild(g guild.Guild) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := copyGuild(&g)
	f.guilds[g.ID] = cp
	if f.members[g.ID] == nil {
		f.members[g.ID] = map[string]*guild.Member{}
	}
}

// RemoveGuild deletes a guild and its members.
func (f *FakePlatform) RemoveGuild(guildID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.guilds, guildID)
	delete(f.members, guildID)
}

// PutMember adds or replaces a member of guildID. The user is registered too.
func (f *FakePlatform) PutMember(guildID string, m guild.Member) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.members[guildID] == nil {
		f.members[guildID] = map[string]*guild.Member{}
	}
	cp := m
	cp.RoleIDs = slices.Clone(m.RoleIDs)
	f.members[guildID][m.UserID] = &cp
	if _, ok := f.users[m.UserID]; !ok {
		f.users[m.UserID] = &guild.User{ID: m.UserID, Username: m.Username, Bot: m.Bot}
	}
}

// RemoveMember removes userID from guildID.
func (f *FakePlatform) RemoveMember(guildID, userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.members[guildID], userID)
}

// PutUser registers a platform user.
func (f *FakePlatform) PutUser(u guild.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := u
	f.users[u.ID] = &cp
}

// SetBotPermissions overrides the bot's permissions in one channel.
func (f *FakePlatform) SetBotPermissions(channelID string, p guild.Permission) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.botPerms[channelID] = p
}

// FailOn makes every later call to op return err. A nil err clears the failure.
func (f *FakePlatform) FailOn(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failures, op)
		return
	}
	f.failures[op] = err
}

func (f *FakePlatform) failure(op string) error {
	return f.failures[op]
}

// LookupGuild implements ports.GuildDirectory.
func (f *FakePlatform) LookupGuild(_ context.Context, guildID string) (*guild.Guild, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure(OpLookupGuild); err != nil {
		return nil, err
	}
	g, ok := f.guilds[guildID]
	if !ok {
		return nil, apperrors.NotFoundf("unknown guild %s", guildID)
	}
	return copyGuild(g), nil
}

// LookupMember implements ports.GuildDirectory.
func (f *FakePlatform) LookupMember(_ context.Context, guildID, userID string) (*guild.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure(OpLookupMember); err != nil {
		return nil, err
	}
	m, ok := f.members[guildID][userID]
	if !ok {
		return nil, apperrors.NotFoundf("unknown member %s", userID)
	}
	cp := *m
	cp.RoleIDs = slices.Clone(m.RoleIDs)
	return &cp, nil
}

// LookupUser implements ports.GuildDirectory.
func (f *FakePlatform) LookupUser(_ context.Context, userID string) (*guild.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure(OpLookupUser); err != nil {
		return nil, err
	}
	u, ok := f.users[userID]
	if !ok {
		return nil, apperrors.NotFoundf("unknown user %s", userID)
	}
	cp := *u
	return &cp, nil
}

// BotPermissions implements ports.GuildDirectory.
func (f *FakePlatform) BotPermissions(_ context.Context, channelID string) (guild.Permission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure(OpBotPermissions); err != nil {
		return 0, err
	}
	if p, ok := f.botPerms[channelID]; ok {
		return p, nil
	}
	return f.defaultBotPerms, nil
}

// BotGuildIDs implements ports.GuildDirectory. The bot is in every known guild.
func (f *FakePlatform) BotGuildIDs(_ context.Context) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure(OpBotGuildIDs); err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(f.guilds))
	for id := range f.guilds {
		out[id] = true
	}
	return out, nil
}

// BotStats counts every guild and the members recorded for it.
func (f *FakePlatform) BotStats(_ context.Context) (guild.BotStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure(OpBotStats); err != nil {
		return guild.BotStats{}, err
	}
	stats := guild.BotStats{Guilds: len(f.guilds)}
	for id := range f.guilds {
		stats.Members += len(f.members[id])
	}
	return stats, nil
}

// SendMessage implements ports.GuildActions.
func (f *FakePlatform) SendMessage(_ context.Context, channelID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure(OpSendMessage); err != nil {
		return err
	}
	f.sent = append(f.sent, SentMessage{Target: channelID, Text: text})
	return nil
}

// SendEmbed implements ports.GuildActions.
func (f *FakePlatform) SendEmbed(_ context.Context, channelID string, embed guild.Embed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure(OpSendEmbed); err != nil {
		return err
	}
	embed.Fields = slices.Clone(embed.Fields)
	f.embeds = append(f.embeds, SentEmbed{ChannelID: channelID, Embed: embed})
	return nil
}

// SendDirect implements ports.GuildActions.
func (f *FakePlatform) SendDirect(_ context.Context, userID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure(OpSendDirect); err != nil {
		return err
	}
	if _, ok := f.users[userID]; !ok {
		return apperrors.NotFoundf("unknown user %s", userID)
	}
	f.directs = append(f.directs, SentMessage{Target: userID, Text: text})
	return nil
}

// CreateInvite implements ports.GuildActions. Codes are inv1, inv2 and so on.
func (f *FakePlatform) CreateInvite(_ context.Context, channelID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure(OpCreateInvite); err != nil {
		return "", err
	}
	f.inviteSeq++
	code := fmt.Sprintf("inv%d", f.inviteSeq)
	f.invites[code] = channelID
	return code, nil
}

// RevokeInvite implements ports.GuildActions.
func (f *FakePlatform) RevokeInvite(_ context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure(OpRevokeInvite); err != nil {
		return err
	}
	if _, ok := f.invites[code]; !ok {
		return apperrors.NotFoundf("unknown invite %s", code)
	}
	delete(f.invites, code)
	f.revoked = append(f.revoked, code)
	return nil
}

// AddMember implements ports.GuildActions. Joining a guild the user is
// already in succeeds without change.
func (f *FakePlatform) AddMember(_ context.Context, guildID, userID, accessToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure(OpAddMember); err != nil {
		return err
	}
	if _, ok := f.guilds[guildID]; !ok {
		return apperrors.NotFoundf("unknown guild %s", guildID)
	}
	f.added = append(f.added, AddedMember{GuildID: guildID, UserID: userID, AccessToken: accessToken})
	if _, ok := f.members[guildID][userID]; ok {
		return nil
	}
	name := userID
	if u, ok := f.users[userID]; ok {
		name = u.Username
	}
	f.members[guildID][userID] = &guild.Member{UserID: userID, Username: name}
	return nil
}

// Sent returns the plain channel messages sent so far.
func (f *FakePlatform) Sent() []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.sent)
}

// Embeds returns the decorated messages sent so far.
func (f *FakePlatform) Embeds() []SentEmbed {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.embeds)
}

// Directs returns the direct messages sent so far.
func (f *FakePlatform) Directs() []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.directs)
}

// LiveInvites returns the codes of invites that have not been revoked.
func (f *FakePlatform) LiveInvites() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.invites))
	for code := range f.invites {
		out = append(out, code)
	}
	slices.Sort(out)
	return out
}

// Revoked returns the revoked invite codes in order.
func (f *FakePlatform) Revoked() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.revoked)
}

// Added returns the recorded AddMember calls.
func (f *FakePlatform) Added() []AddedMember {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.added)
}

func copyGuild(g *guild.Guild) *guild.Guild {
	cp := *g
	cp.Roles = slices.Clone(g.Roles)
	cp.Channels = slices.Clone(g.Channels)
	return &cp
}
