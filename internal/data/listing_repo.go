package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/guildboard/guildboard/internal/domain/listing"
	apperrors "github.com/guildboard/guildboard/internal/errors"
	"github.com/guildboard/guildboard/internal/migrate"
)

// ListingRepo stores listing entries in the listings table of Postgres or SQLite.
// The guild_id primary key makes registration atomic across processes: the
// losing INSERT fails with a unique violation and is reported as not created.
type ListingRepo struct {
	DB      *sql.DB
	dialect migrate.Dialect
	now     func() time.Time
}

// ListingRepoOptions configures a ListingRepo.
type ListingRepoOptions struct {
	Dialect migrate.Dialect
	// Now overrides the clock used for created_at (tests).
	Now func() time.Time
}

// NewListingRepo creates a new ListingRepo.
func NewListingRepo(db *sql.DB, opts ListingRepoOptions) *ListingRepo {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	dialect := opts.Dialect
	if dialect == "" {
		dialect = migrate.Postgres
	}
	return &ListingRepo{DB: db, dialect: dialect, now: now}
}

func (r *ListingRepo) ph(n int) string { return r.dialect.Placeholder(n) }

// Get returns the entry for a guild, or a NotFound error.
func (r *ListingRepo) Get(ctx context.Context, guildID string) (listing.Entry, error) {
	query := `SELECT guild_id, invite_code, created_at FROM listings WHERE guild_id = ` + r.ph(1)

	var (
		e       listing.Entry
		created dbTime
	)
	err := r.DB.QueryRowContext(ctx, query, guildID).Scan(&e.GuildID, &e.InviteCode, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return listing.Entry{}, ErrListingNotFound
		}
		return listing.Entry{}, fmt.Errorf("get listing: %w", apperrors.MapDBError(err))
	}
	e.CreatedAt = created.Time
	return e, nil
}

// Exists reports whether a guild has an entry.
func (r *ListingRepo) Exists(ctx context.Context, guildID string) (bool, error) {
	query := `SELECT COUNT(*) FROM listings WHERE guild_id = ` + r.ph(1)

	var n int
	if err := r.DB.QueryRowContext(ctx, query, guildID).Scan(&n); err != nil {
		return false, fmt.Errorf("check listing: %w", apperrors.MapDBError(err))
	}
	return n > 0, nil
}

// SetIfAbsent inserts the entry unless the guild already has one.
func (r *ListingRepo) SetIfAbsent(ctx context.Context, entry listing.Entry) (bool, error) {
	if entry.GuildID == "" || entry.InviteCode == "" {
		return false, apperrors.Validation("guild id and invite code are required")
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}

	query := `INSERT INTO listings (guild_id, invite_code, created_at) VALUES (` +
		r.ph(1) + `, ` + r.ph(2) + `, ` + r.ph(3) + `)`
	_, err := r.DB.ExecContext(ctx, query, entry.GuildID, entry.InviteCode, r.timeArg(createdAt))
	if err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsConflict(mapped) {
			return false, nil
		}
		return false, fmt.Errorf("insert listing: %w", mapped)
	}
	return true, nil
}

// Delete removes a guild's entry and reports whether one existed.
func (r *ListingRepo) Delete(ctx context.Context, guildID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM listings WHERE guild_id = `+r.ph(1), guildID)
	if err != nil {
		return false, fmt.Errorf("delete listing: %w", apperrors.MapDBError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete listing rows affected: %w", err)
	}
	return n > 0, nil
}

// List returns every entry, oldest first.
func (r *ListingRepo) List(ctx context.Context) ([]listing.Entry, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT guild_id, invite_code, created_at FROM listings ORDER BY created_at, guild_id`)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	entries := []listing.Entry{}
	for rows.Next() {
		var (
			e       listing.Entry
			created dbTime
		)
		if err := rows.Scan(&e.GuildID, &e.InviteCode, &created); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		e.CreatedAt = created.Time
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database.
func (r *ListingRepo) Close() error {
	return r.DB.Close()
}

// timeArg formats created_at for the dialect. SQLite stores RFC 3339 text so
// ordering by the column stays chronological.
func (r *ListingRepo) timeArg(t time.Time) any {
	if r.dialect == migrate.SQLite {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t.UTC()
}

// dbTime scans timestamps stored either natively or as RFC 3339 text.
type dbTime struct{ time.Time }

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
	case time.Time:
		t.Time = v
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
	return nil
}

func (t *dbTime) parse(s string) error {
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}
