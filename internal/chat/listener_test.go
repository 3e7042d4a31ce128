package chat

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisadapter "github.com/guildboard/guildboard/internal/adapters/redis"
	"github.com/guildboard/guildboard/internal/domain/guild"
	apperrors "github.com/guildboard/guildboard/internal/errors"
	"github.com/guildboard/guildboard/internal/service"
	"github.com/guildboard/guildboard/internal/testutil"
)

const (
	guildID   = "g1"
	channelID = "c-general"
	relayID   = "relay"
	ownerID   = "100"
	memberID  = "200"
)

type listenerFixture struct {
	platform *testutil.FakePlatform
	store    *redisadapter.ListingStore
	listener *Listener
}

func newListenerFixture(t *testing.T) listenerFixture {
	t.Helper()
	fp := testutil.NewFakePlatform()
	fp.PutGuild(guild.Guild{
		ID:      guildID,
		Name:    "Guild One",
		OwnerID: ownerID,
		Roles:   []guild.Role{{ID: guildID, Name: "@everyone", Permissions: guild.PermissionSendMessages}},
		Channels: []guild.Channel{
			{ID: channelID, Name: "general", Kind: guild.ChannelKindText},
		},
	})
	fp.PutMember(guildID, guild.Member{UserID: ownerID, Username: "owner"})
	fp.PutMember(guildID, guild.Member{UserID: memberID, Username: "member"})

	mr := miniredis.RunT(t)
	store := redisadapter.NewListingStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		redisadapter.ListingStoreOptions{CloseClient: true})
	t.Cleanup(func() { _ = store.Close() })

	listings := service.NewListingService(service.ListingServiceOptions{Store: store, Actions: fp, RelayChannelID: relayID})
	l, err := NewListener(ListenerOptions{
		Guard:     service.NewGuard(fp),
		Listings:  listings,
		Directory: fp,
		Actions:   fp,
	})
	require.NoError(t, err)
	return listenerFixture{platform: fp, store: store, listener: l}
}

func (f listenerFixture) say(authorID, content string) {
	f.listener.Handle(context.Background(), Message{
		GuildID: guildID, ChannelID: channelID, AuthorID: authorID, AuthorName: "someone", Content: content,
	})
}

// replies returns the messages posted to the command channel.
func (f listenerFixture) replies() []string {
	var out []string
	for _, m := range f.platform.Sent() {
		if m.Target == channelID {
			out = append(out, m.Text)
		}
	}
	return out
}

func TestNewListener_RequiresDependencies(t *testing.T) {
	_, err := NewListener(ListenerOptions{})
	assert.Error(t, err)
}

func TestListener_IgnoredMessages(t *testing.T) {
	f := newListenerFixture(t)

	f.listener.Handle(context.Background(), Message{
		GuildID: guildID, ChannelID: channelID, AuthorID: ownerID, AuthorBot: true, Content: ".setup-list",
	})
	f.listener.Handle(context.Background(), Message{ChannelID: "dm", AuthorID: ownerID, Content: ".setup-list"})
	f.say(ownerID, "setup-list")
	f.say(ownerID, ".no-such-command")

	assert.Empty(t, f.platform.Sent())
	assert.Empty(t, f.platform.LiveInvites())
}

func TestListener_BotCannotWrite(t *testing.T) {
	f := newListenerFixture(t)
	f.platform.SetBotPermissions(channelID, guild.PermissionViewChannel)

	f.say(ownerID, ".setup-list")

	assert.Empty(t, f.platform.Sent())
	assert.Empty(t, f.platform.LiveInvites())
}

func TestListener_SetupList(t *testing.T) {
	ctx := context.Background()
	f := newListenerFixture(t)

	f.say(memberID, ".setup-list")
	assert.Equal(t, []string{"<@200> " + ReplyNeedManageGuild}, f.replies())
	assert.Empty(t, f.platform.LiveInvites())

	f.say(ownerID, ".setup-list")
	f.say(ownerID, ".SETUP-LIST")

	assert.Equal(t, []string{
		"<@200> " + ReplyNeedManageGuild,
		"<@100> " + ReplyRegistered,
		"<@100> " + service.ErrAlreadyRegistered.Message,
	}, f.replies())

	entry, err := f.store.Get(ctx, guildID)
	require.NoError(t, err)
	assert.Equal(t, []string{entry.InviteCode}, f.platform.LiveInvites())

	var notices int
	for _, m := range f.platform.Sent() {
		if m.Target == relayID {
			notices++
			assert.Contains(t, m.Text, "https://discord.gg/"+entry.InviteCode)
			assert.Contains(t, m.Text, "Guild One")
		}
	}
	assert.Equal(t, 1, notices)
}

func TestListener_RemoveList(t *testing.T) {
	ctx := context.Background()
	f := newListenerFixture(t)

	f.say(ownerID, ".remove-list")
	f.say(ownerID, ".setup-list")
	f.say(memberID, ".remove-list")
	f.say(ownerID, ".remove-list")

	assert.Equal(t, []string{
		"<@100> " + ReplyNotPublished,
		"<@100> " + ReplyRegistered,
		"<@200> " + ReplyNeedManageGuild,
		"<@100> " + ReplyRemoved,
	}, f.replies())

	exists, err := f.store.Exists(ctx, guildID)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Empty(t, f.platform.LiveInvites())
}

func TestListener_TransientFailure(t *testing.T) {
	tests := []struct {
		name string
		op   string
		err  error
	}{
		{"invite creation unavailable", testutil.OpCreateInvite, apperrors.Unavailable("gateway timeout")},
		{"guild lookup timed out", testutil.OpLookupGuild, apperrors.MapRemoteError(context.DeadlineExceeded, 0)},
		{"invite creation timed out", testutil.OpCreateInvite, apperrors.MapRemoteError(context.DeadlineExceeded, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newListenerFixture(t)
			f.platform.FailOn(tt.op, tt.err)

			f.say(ownerID, ".setup-list")

			assert.Equal(t, []string{"<@100> " + ReplyTransient}, f.replies())
			exists, err := f.store.Exists(ctx, guildID)
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}
