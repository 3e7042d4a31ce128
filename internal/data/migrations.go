package data

import (
	"context"
	"database/sql"

	"github.com/guildboard/guildboard/internal/migrate"
)

// RunMigrations executes database migrations for the dialect by delegating to the migrate package.
func RunMigrations(ctx context.Context, db *sql.DB, dialect migrate.Dialect) error {
	return migrate.Run(ctx, db, dialect)
}
