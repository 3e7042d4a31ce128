package ports

import (
	"context"

	"github.com/guildboard/guildboard/internal/domain/listing"
)

// ListingStore is the durable guild id → invite code association.
// Writes for one guild id must be atomic: SetIfAbsent tolerates concurrent
// callers and exactly one of them observes created == true.
type ListingStore interface {
	Get(ctx context.Context, guildID string) (listing.Entry, error)
	Exists(ctx context.Context, guildID string) (bool, error)
	SetIfAbsent(ctx context.Context, entry listing.Entry) (created bool, err error)
	Delete(ctx context.Context, guildID string) (deleted bool, err error)
	List(ctx context.Context) ([]listing.Entry, error)
	Close() error
}
