package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
)

//go:embed migrations
var migrationsFS embed.FS

// Dialect selects the SQL flavour of the embedded migrations.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// Placeholder returns the n-th (1-based) bind parameter for the dialect.
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (d Dialect) schemaTableDDL() string {
	if d == Postgres {
		return `CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	}
	return `CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`
}

// Run applies all SQL migrations embedded for the dialect. It is safe to call multiple times.
func Run(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if dialect != Postgres && dialect != SQLite {
		return fmt.Errorf("unsupported migration dialect %q", dialect)
	}

	if _, err := db.ExecContext(ctx, dialect.schemaTableDDL()); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	dir := "migrations/" + string(dialect)
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, f := range files {
		info := migrationInfo{
			dialect:    dialect,
			versionStr: strings.TrimSuffix(f, ".sql"),
			path:       dir + "/" + f,
		}
		if applyErr := applyMigration(ctx, db, info); applyErr != nil {
			return applyErr
		}
	}
	return nil
}

type migrationInfo struct {
	dialect    Dialect
	versionStr string
	path       string
}

func migrationExists(ctx context.Context, db *sql.DB, info migrationInfo) (bool, error) {
	var n int
	query := `SELECT COUNT(*) FROM schema_migrations WHERE version = ` + info.dialect.Placeholder(1)
	if err := db.QueryRowContext(ctx, query, info.versionStr).Scan(&n); err != nil {
		return false, fmt.Errorf("check migration %s: %w", info.path, err)
	}
	return n > 0, nil
}

func applyMigration(ctx context.Context, db *sql.DB, info migrationInfo) error {
	exists, err := migrationExists(ctx, db, info)
	if err != nil || exists {
		return err
	}

	sqlBytes, err := migrationsFS.ReadFile(info.path)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", info.path, err)
	}

	logger := slog.Default().With("component", "migrations")
	logger.InfoContext(ctx, "applying migration", "version", info.versionStr, "dialect", info.dialect)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			logger.ErrorContext(ctx, "failed to rollback transaction", "err", rollbackErr, "migration", info.path)
		}
	}()

	if _, execErr := tx.ExecContext(ctx, string(sqlBytes)); execErr != nil {
		return fmt.Errorf("exec migration %s: %w", info.path, execErr)
	}
	insert := `INSERT INTO schema_migrations (version) VALUES (` + info.dialect.Placeholder(1) + `)`
	if _, insertErr := tx.ExecContext(ctx, insert, info.versionStr); insertErr != nil {
		return fmt.Errorf("record migration %s: %w", info.path, insertErr)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return fmt.Errorf("commit migration %s: %w", info.path, commitErr)
	}
	return nil
}
