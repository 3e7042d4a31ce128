package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/guildboard/guildboard/internal/domain/listing"
)

// ListingStore keeps listing entries as plain string keys: <prefix><guildID> → invite code.
// Registration uses SETNX so concurrent writers across processes cannot overwrite each other.
type ListingStore struct {
	client redis.UniversalClient
	prefix string
	// owned reports whether Close should close the client.
	owned bool
}

// ListingStoreOptions configures a ListingStore.
type ListingStoreOptions struct {
	Prefix string
	// CloseClient makes Close also close the underlying client. Leave false when
	// the client is shared with the session store.
	CloseClient bool
}

// NewListingStore creates a Redis listing store.
func NewListingStore(client redis.UniversalClient, opts ListingStoreOptions) *ListingStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "listing:"
	}
	return &ListingStore{client: client, prefix: prefix, owned: opts.CloseClient}
}

func (s *ListingStore) key(guildID string) string { return s.prefix + guildID }

// Get returns the entry for guildID, or ErrNotFound.
func (s *ListingStore) Get(ctx context.Context, guildID string) (listing.Entry, error) {
	code, err := s.client.Get(ctx, s.key(guildID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return listing.Entry{}, ErrNotFound
		}
		return listing.Entry{}, fmt.Errorf("redis get listing: %w", err)
	}
	return listing.Entry{GuildID: guildID, InviteCode: code}, nil
}

// Exists reports whether guildID has an entry.
func (s *ListingStore) Exists(ctx context.Context, guildID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(guildID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists listing: %w", err)
	}
	return n > 0, nil
}

// SetIfAbsent stores entry unless the guild already has one. It reports whether
// this call created it.
func (s *ListingStore) SetIfAbsent(ctx context.Context, entry listing.Entry) (bool, error) {
	if entry.GuildID == "" || entry.InviteCode == "" {
		return false, errors.New("guild id and invite code are required")
	}
	created, err := s.client.SetNX(ctx, s.key(entry.GuildID), entry.InviteCode, 0).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx listing: %w", err)
	}
	return created, nil
}

// Delete removes the entry for guildID and reports whether one existed.
func (s *ListingStore) Delete(ctx context.Context, guildID string) (bool, error) {
	n, err := s.client.Del(ctx, s.key(guildID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis del listing: %w", err)
	}
	return n > 0, nil
}

// List scans every listing key. Entries deleted between SCAN and MGET are skipped.
func (s *ListingStore) List(ctx context.Context) ([]listing.Entry, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan listings: %w", err)
	}
	if len(keys) == 0 {
		return []listing.Entry{}, nil
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget listings: %w", err)
	}

	entries := make([]listing.Entry, 0, len(keys))
	for i, v := range vals {
		code, ok := v.(string)
		if !ok {
			continue
		}
		entries = append(entries, listing.Entry{
			GuildID:    strings.TrimPrefix(keys[i], s.prefix),
			InviteCode: code,
		})
	}
	return entries, nil
}

// Close closes the client when the store owns it.
func (s *ListingStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}
