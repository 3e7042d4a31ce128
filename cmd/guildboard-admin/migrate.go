package main

import (
	"github.com/spf13/cobra"

	"github.com/guildboard/guildboard/config"
	"github.com/guildboard/guildboard/internal/bootstrap"
	"github.com/guildboard/guildboard/internal/data"
	"github.com/guildboard/guildboard/internal/migrate"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply listing store migrations",
		Long: `Apply the SQL migrations for the configured store backend. Use this when the
service runs with DB_RUN_MIGRATIONS_ON_START=false. The redis backend has no schema.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, ok := a.store.(*data.ListingRepo)
			if !ok {
				cmd.Println("store has no schema: nothing to migrate")
				return nil
			}

			dialect := migrate.Postgres
			if a.cfg.Store.Backend == config.StoreBackendSQLite {
				dialect = migrate.SQLite
			}
			if err := bootstrap.RunMigrations(cmd.Context(), repo.DB, dialect, a.logger); err != nil {
				return err
			}
			cmd.Printf("%s store is up to date\n", dialect)
			return nil
		},
	}
}
