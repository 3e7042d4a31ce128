package service

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	redisadapter "github.com/guildboard/guildboard/internal/adapters/redis"
	domainauth "github.com/guildboard/guildboard/internal/domain/auth"
	"github.com/guildboard/guildboard/internal/domain/guild"
	"github.com/guildboard/guildboard/internal/testutil"
)

const (
	testGuildID  = "g1"
	testRelayID  = "relay"
	managerID    = "100"
	bystanderID  = "200"
	modRoleID    = "r-mod"
	generalID    = "c-general"
	voiceID      = "c-voice"
	announceID   = "c-news"
	unlistedGID  = "g2"
	reporterName = "carol"
)

func newTestListingStore(t *testing.T) *redisadapter.ListingStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := redisadapter.NewListingStore(client, redisadapter.ListingStoreOptions{CloseClient: true})
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// newTestPlatform returns a platform with one guild g1 where managerID holds the
// mod role (manage-guild) and bystanderID has no roles.
func newTestPlatform() *testutil.FakePlatform {
	fp := testutil.NewFakePlatform()
	fp.PutGuild(guild.Guild{
		ID:      testGuildID,
		Name:    "Guild One",
		OwnerID: "owner",
		Roles: []guild.Role{
			{ID: testGuildID, Name: "@everyone", Permissions: guild.PermissionViewChannel | guild.PermissionSendMessages},
			{ID: modRoleID, Name: "mod", Permissions: guild.PermissionManageGuild},
		},
		Channels: []guild.Channel{
			{ID: voiceID, Name: "General Voice", Kind: guild.ChannelKindVoice},
			{ID: generalID, Name: "general", Kind: guild.ChannelKindText},
			{ID: announceID, Name: "announcements", Kind: guild.ChannelKindNews},
		},
	})
	fp.PutMember(testGuildID, guild.Member{UserID: managerID, Username: "manager", RoleIDs: []string{modRoleID}})
	fp.PutMember(testGuildID, guild.Member{UserID: bystanderID, Username: "bystander"})
	fp.PutUser(guild.User{ID: "300", Username: reporterName})
	return fp
}

func principal(id string) *domainauth.Principal {
	return &domainauth.Principal{UserID: id, Username: "user-" + id, AccessToken: "token-" + id}
}

type actionFixture struct {
	platform *testutil.FakePlatform
	store    *redisadapter.ListingStore
	listings *ListingService
	guard    *Guard
	svc      *GuildActionService
}

func newActionFixture(t *testing.T) actionFixture {
	t.Helper()
	fp := newTestPlatform()
	store := newTestListingStore(t)
	listings := NewListingService(ListingServiceOptions{Store: store, Actions: fp, RelayChannelID: testRelayID})
	guard := NewGuard(fp)
	return actionFixture{
		platform: fp,
		store:    store,
		listings: listings,
		guard:    guard,
		svc: NewGuildActionService(GuildActionServiceOptions{
			Guard:     guard,
			Directory: fp,
			Actions:   fp,
			Listings:  listings,
			Stats:     fp,
		}),
	}
}
