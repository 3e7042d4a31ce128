package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	apperrors "github.com/guildboard/guildboard/internal/errors"
	"github.com/guildboard/guildboard/internal/mocks"
	"github.com/guildboard/guildboard/internal/testutil"
)

func TestListingService_Register(t *testing.T) {
	f := newActionFixture(t)
	ctx := context.Background()

	entry, err := f.listings.Register(ctx, RegisterInput{GuildID: testGuildID, GuildName: "Guild One", ChannelID: generalID})
	require.NoError(t, err)
	assert.Equal(t, "inv1", entry.InviteCode)

	stored, err := f.store.Get(ctx, testGuildID)
	require.NoError(t, err)
	assert.Equal(t, "inv1", stored.InviteCode)

	sent := f.platform.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, testRelayID, sent[0].Target)
	assert.Contains(t, sent[0].Text, "https://discord.gg/inv1")
	assert.Contains(t, sent[0].Text, "Guild One")
}

func TestListingService_Register_NeverOverwrites(t *testing.T) {
	f := newActionFixture(t)
	ctx := context.Background()

	_, err := f.listings.Register(ctx, RegisterInput{GuildID: testGuildID, ChannelID: generalID})
	require.NoError(t, err)

	_, err = f.listings.Register(ctx, RegisterInput{GuildID: testGuildID, ChannelID: announceID})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	stored, err := f.store.Get(ctx, testGuildID)
	require.NoError(t, err)
	assert.Equal(t, "inv1", stored.InviteCode)
	assert.Equal(t, []string{"inv1"}, f.platform.LiveInvites())
}

func TestListingService_Register_ConcurrentSingleWinner(t *testing.T) {
	f := newActionFixture(t)
	ctx := context.Background()

	const callers = 12
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		wins     int
		conflict int
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.listings.Register(ctx, RegisterInput{GuildID: testGuildID, ChannelID: generalID})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrAlreadyRegistered):
				conflict++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, callers-1, conflict)
	assert.Len(t, f.platform.LiveInvites(), 1)
	assert.Zero(t, f.listings.locks.size(), "lock entries are released")
}

func TestListingService_Register_LostRaceRevokesInvite(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockListingStore(ctrl)
	actions := mocks.NewMockGuildActions(ctrl)
	svc := NewListingService(ListingServiceOptions{Store: store, Actions: actions, RelayChannelID: testRelayID})

	gomock.InOrder(
		store.EXPECT().Exists(gomock.Any(), testGuildID).Return(false, nil),
		actions.EXPECT().CreateInvite(gomock.Any(), generalID).Return("fresh", nil),
		store.EXPECT().SetIfAbsent(gomock.Any(), gomock.Any()).Return(false, nil),
		actions.EXPECT().RevokeInvite(gomock.Any(), "fresh").Return(nil),
	)

	_, err := svc.Register(context.Background(), RegisterInput{GuildID: testGuildID, ChannelID: generalID})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestListingService_Register_RelayFailureRollsBack(t *testing.T) {
	f := newActionFixture(t)
	ctx := context.Background()
	f.platform.FailOn(testutil.OpSendMessage, apperrors.NotFound("Unknown Channel"))

	_, err := f.listings.Register(ctx, RegisterInput{GuildID: testGuildID, ChannelID: generalID})
	require.Error(t, err)
	assert.True(t, apperrors.IsTransient(err))

	exists, err := f.store.Exists(ctx, testGuildID)
	require.NoError(t, err)
	assert.False(t, exists, "entry is rolled back")
	assert.Empty(t, f.platform.LiveInvites(), "invite is revoked")
	assert.Equal(t, []string{"inv1"}, f.platform.Revoked())
}

func TestListingService_Register_InviteFailureLeavesNoEntry(t *testing.T) {
	f := newActionFixture(t)
	ctx := context.Background()
	f.platform.FailOn(testutil.OpCreateInvite, apperrors.Forbidden("Missing Permissions"))

	_, err := f.listings.Register(ctx, RegisterInput{GuildID: testGuildID, ChannelID: generalID})
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
	assert.NotErrorIs(t, err, ErrDenied)

	exists, err := f.store.Exists(ctx, testGuildID)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Empty(t, f.platform.Sent())
}

func TestListingService_Deregister(t *testing.T) {
	f := newActionFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.listings.Deregister(ctx, testGuildID), ErrNotRegistered)

	_, err := f.listings.Register(ctx, RegisterInput{GuildID: testGuildID, ChannelID: generalID})
	require.NoError(t, err)

	require.NoError(t, f.listings.Deregister(ctx, testGuildID))
	_, err = f.listings.Get(ctx, testGuildID)
	assert.ErrorIs(t, err, ErrNotListed)
	assert.Equal(t, []string{"inv1"}, f.platform.Revoked())

	assert.ErrorIs(t, f.listings.Deregister(ctx, testGuildID), ErrNotRegistered)
}

func TestListingService_Deregister_RevokeFailureStillRemoves(t *testing.T) {
	f := newActionFixture(t)
	ctx := context.Background()

	_, err := f.listings.Register(ctx, RegisterInput{GuildID: testGuildID, ChannelID: generalID})
	require.NoError(t, err)
	f.platform.FailOn(testutil.OpRevokeInvite, apperrors.Unavailable("down"))

	require.NoError(t, f.listings.Deregister(ctx, testGuildID))
	exists, err := f.store.Exists(ctx, testGuildID)
	require.NoError(t, err)
	assert.False(t, exists)
}
