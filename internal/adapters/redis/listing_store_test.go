package redis

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildboard/guildboard/internal/domain/listing"
)

func TestListingStore_RegisterOnce(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewListingStore(client, ListingStoreOptions{})
	ctx := context.Background()

	created, err := store.SetIfAbsent(ctx, listing.Entry{GuildID: "g1", InviteCode: "first"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.SetIfAbsent(ctx, listing.Entry{GuildID: "g1", InviteCode: "second"})
	require.NoError(t, err)
	assert.False(t, created)

	got, err := store.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "first", got.InviteCode, "second registration must not overwrite")

	v, err := mr.Get("listing:g1")
	require.NoError(t, err)
	assert.Equal(t, "first", v)
}

func TestListingStore_ConcurrentRegistrationHasOneWinner(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewListingStore(client, ListingStoreOptions{})
	ctx := context.Background()

	const n = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			created, err := store.SetIfAbsent(ctx, listing.Entry{GuildID: "race", InviteCode: string(rune('a' + i))})
			assert.NoError(t, err)
			if created {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestListingStore_ExistsAndDelete(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewListingStore(client, ListingStoreOptions{Prefix: "srv:"})
	ctx := context.Background()

	exists, err := store.Exists(ctx, "g1")
	require.NoError(t, err)
	assert.False(t, exists)

	deleted, err := store.Delete(ctx, "g1")
	require.NoError(t, err)
	assert.False(t, deleted, "deleting an absent entry reports false")

	_, err = store.SetIfAbsent(ctx, listing.Entry{GuildID: "g1", InviteCode: "c"})
	require.NoError(t, err)

	exists, err = store.Exists(ctx, "g1")
	require.NoError(t, err)
	assert.True(t, exists)

	deleted, err = store.Delete(ctx, "g1")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = store.Get(ctx, "g1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListingStore_List(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewListingStore(client, ListingStoreOptions{})
	ctx := context.Background()

	entries, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	for _, id := range []string{"a", "b", "c"} {
		_, err := store.SetIfAbsent(ctx, listing.Entry{GuildID: id, InviteCode: "code-" + id})
		require.NoError(t, err)
	}
	require.NoError(t, mr.Set("session:x", "{}"))

	entries, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	sort.Slice(entries, func(i, j int) bool { return entries[i].GuildID < entries[j].GuildID })
	assert.Equal(t, "a", entries[0].GuildID)
	assert.Equal(t, "code-c", entries[2].InviteCode)
}

func TestListingStore_SetIfAbsentValidation(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewListingStore(client, ListingStoreOptions{})

	_, err := store.SetIfAbsent(context.Background(), listing.Entry{GuildID: "g"})
	require.Error(t, err)
}

func TestListingStore_CloseLeavesSharedClientOpen(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewListingStore(client, ListingStoreOptions{})
	require.NoError(t, store.Close())
	require.NoError(t, client.Ping(context.Background()).Err())
}
