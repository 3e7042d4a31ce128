package main

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/guildboard/guildboard/internal/domain/listing"
	apperrors "github.com/guildboard/guildboard/internal/errors"
	"github.com/guildboard/guildboard/internal/service"
)

func newListingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "listings",
		Aliases: []string{"listing", "ls"},
		Short:   "Inspect and edit the public servers list",
	}
	cmd.AddCommand(newListingsListCmd(a), newListingsShowCmd(a), newListingsRemoveCmd(a))
	return cmd
}

func newListingsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every published guild",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.store.List(cmd.Context())
			if err != nil {
				return err
			}
			renderListings(cmd, entries)
			return nil
		},
	}
}

func newListingsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <guild-id>",
		Short: "Show one guild's listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.store.Get(cmd.Context(), args[0])
			if err != nil {
				if apperrors.IsNotFound(err) {
					return fmt.Errorf("guild %s is not listed", args[0])
				}
				return err
			}

			t := newTable(cmd)
			t.AppendHeader(table.Row{text.FgHiCyan.Sprint("KEY"), text.FgHiCyan.Sprint("VALUE")})
			t.AppendRows([]table.Row{
				{"Guild", e.GuildID},
				{"Invite", listing.InviteURL(e.InviteCode)},
				{"Listed", formatListed(e.CreatedAt)},
			})
			t.Render()
			return nil
		},
	}
}

func newListingsRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <guild-id>",
		Short: "Remove a guild from the list and revoke its invite",
		Long: `Remove a guild from the public servers list. With DISCORD_BOT_TOKEN set the
listing's invite is revoked too; otherwise only the entry is deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			guildID := args[0]
			if a.actions == nil {
				deleted, err := a.store.Delete(cmd.Context(), guildID)
				if err != nil {
					return err
				}
				if !deleted {
					return fmt.Errorf("guild %s is not listed", guildID)
				}
				cmd.Printf("Removed %s (invite left active: no bot token configured)\n", guildID)
				return nil
			}

			svc := service.NewListingService(service.ListingServiceOptions{
				Store:   a.store,
				Actions: a.actions,
				Logger:  a.logger,
			})
			if err := svc.Deregister(cmd.Context(), guildID); err != nil {
				if errors.Is(err, service.ErrNotRegistered) {
					return fmt.Errorf("guild %s is not listed", guildID)
				}
				return err
			}
			cmd.Printf("Removed %s\n", guildID)
			return nil
		},
	}
}

func renderListings(cmd *cobra.Command, entries []listing.Entry) {
	if len(entries) == 0 {
		cmd.Println(text.FgYellow.Sprint("No guilds are listed"))
		return
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].GuildID < entries[j].GuildID })

	t := newTable(cmd)
	t.AppendHeader(table.Row{"GUILD", "INVITE", "LISTED"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.GuildID, listing.InviteURL(e.InviteCode), formatListed(e.CreatedAt)})
	}
	t.AppendFooter(table.Row{"", "Total", len(entries)})
	t.Render()
}

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleRounded)
	return t
}

// formatListed renders creation time; the Redis backend does not record it.
func formatListed(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
