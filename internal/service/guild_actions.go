package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	domainauth "github.com/guildboard/guildboard/internal/domain/auth"
	"github.com/guildboard/guildboard/internal/domain/guild"
	"github.com/guildboard/guildboard/internal/domain/listing"
	apperrors "github.com/guildboard/guildboard/internal/errors"
	"github.com/guildboard/guildboard/internal/ports"
)

// listingLookupConcurrency bounds parallel guild lookups on the public list.
const listingLookupConcurrency = 8

// GuildActionServiceOptions groups dependencies for GuildActionService.
type GuildActionServiceOptions struct {
	Guard      *Guard
	Directory  ports.GuildDirectory
	Actions    ports.GuildActions
	Listings   *ListingService
	UserGuilds ports.UserGuildLister
	Stats      ports.StatsSource
	Logger     *slog.Logger
}

// GuildActionService performs the dashboard's privileged actions. Each action
// resolves its target, passes the Guard, then mutates remote state; a denied or
// invalid request never reaches the mutation.
type GuildActionService struct {
	guard      *Guard
	directory  ports.GuildDirectory
	actions    ports.GuildActions
	listings   *ListingService
	userGuilds ports.UserGuildLister
	stats      ports.StatsSource
	logger     *slog.Logger
}

// NewGuildActionService constructs a GuildActionService.
func NewGuildActionService(opts GuildActionServiceOptions) *GuildActionService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &GuildActionService{
		guard:      opts.Guard,
		directory:  opts.Directory,
		actions:    opts.Actions,
		listings:   opts.Listings,
		userGuilds: opts.UserGuilds,
		stats:      opts.Stats,
		logger:     logger,
	}
}

// SendMessageInput is a plain message to post in a guild channel.
type SendMessageInput struct {
	Principal  *domainauth.Principal
	GuildID    string
	ChannelRef string
	Text       string
}

// SendEmbedInput is a decorated message to post in a guild channel.
type SendEmbedInput struct {
	Principal  *domainauth.Principal
	GuildID    string
	ChannelRef string
	Text       string
	Color      string
}

// ListingActionInput targets the listing of one guild.
type ListingActionInput struct {
	Principal  *domainauth.Principal
	GuildID    string
	ChannelRef string
}

// SubmitReportInput is an abuse report about a listed guild.
type SubmitReportInput struct {
	GuildID    string
	ReporterID string
	Text       string
}

// PublicListing is a listing resolved for display. GuildName is empty when the
// guild could not be resolved.
type PublicListing struct {
	listing.Entry
	GuildName string
	Icon      string
}

// Authorize runs the guard for a page view. A denial is returned as a forbidden error.
func (s *GuildActionService) Authorize(ctx context.Context, p *domainauth.Principal, guildID string) (guild.Verdict, error) {
	if p == nil {
		return guild.Verdict{}, apperrors.Unauthenticated("not logged in")
	}
	return s.guard.Require(ctx, p.UserID, guildID)
}

// SendPlainMessage posts text verbatim to a channel of the guild.
func (s *GuildActionService) SendPlainMessage(ctx context.Context, in SendMessageInput) (guild.Channel, error) {
	ch, err := s.resolveTarget(ctx, in.Principal, in.GuildID, in.ChannelRef, in.Text)
	if err != nil {
		return guild.Channel{}, err
	}
	if guild.TooLong(in.Text, guild.MaxMessageLength) {
		return guild.Channel{}, ErrMessageTooLong
	}
	if err = s.actions.SendMessage(ctx, ch.ID, in.Text); err != nil {
		return guild.Channel{}, fmt.Errorf("send message: %w", err)
	}
	return ch, nil
}

// SendDecoratedMessage posts text as the description of an embed. An empty
// color selects guild.DefaultColor.
func (s *GuildActionService) SendDecoratedMessage(ctx context.Context, in SendEmbedInput) (guild.Channel, error) {
	ch, err := s.resolveTarget(ctx, in.Principal, in.GuildID, in.ChannelRef, in.Text)
	if err != nil {
		return guild.Channel{}, err
	}
	if guild.TooLong(in.Text, guild.MaxDescriptionLength) {
		return guild.Channel{}, ErrEmbedTooLong
	}
	color, err := guild.ParseColor(in.Color)
	if err != nil {
		return guild.Channel{}, ErrInvalidColor
	}
	embed := guild.Embed{Description: in.Text, Color: color}
	if err = s.actions.SendEmbed(ctx, ch.ID, embed); err != nil {
		return guild.Channel{}, fmt.Errorf("send embed: %w", err)
	}
	return ch, nil
}

// RegisterListing publishes the guild with an invite to the referenced channel.
func (s *GuildActionService) RegisterListing(ctx context.Context, in ListingActionInput) (listing.Entry, error) {
	v, err := s.Authorize(ctx, in.Principal, in.GuildID)
	if err != nil {
		return listing.Entry{}, err
	}
	ch, ok := guild.FindChannel(v.Guild.Channels, in.ChannelRef)
	if !ok {
		return listing.Entry{}, ErrInvalidChannel
	}
	return s.listings.Register(ctx, RegisterInput{GuildID: v.Guild.ID, GuildName: v.Guild.Name, ChannelID: ch.ID})
}

// DeregisterListing removes the guild from the public list.
func (s *GuildActionService) DeregisterListing(ctx context.Context, in ListingActionInput) error {
	if _, err := s.Authorize(ctx, in.Principal, in.GuildID); err != nil {
		return err
	}
	return s.listings.Deregister(ctx, in.GuildID)
}

// Listing returns the guild's listing entry, or nil when it is not listed.
func (s *GuildActionService) Listing(ctx context.Context, guildID string) (*listing.Entry, error) {
	e, err := s.listings.Get(ctx, guildID)
	switch {
	case errors.Is(err, ErrNotListed):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return &e, nil
}

// SubmitReport relays an abuse report about a listed guild to the operators and
// acknowledges it to the reporter by direct message. Nothing is sent unless the
// guild is listed, the reporter resolves and the report has text.
func (s *GuildActionService) SubmitReport(ctx context.Context, in SubmitReportInput) error {
	entry, err := s.listings.Get(ctx, in.GuildID)
	if err != nil {
		return err
	}

	reporter, err := s.directory.LookupUser(ctx, in.ReporterID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return ErrUnknownReporter
		}
		return fmt.Errorf("resolve reporter: %w", err)
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return ErrEmptyMessage
	}
	if guild.TooLong(text, guild.MaxFieldValueLength) {
		return ErrReportTooLong
	}

	g, err := s.directory.LookupGuild(ctx, in.GuildID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return ErrGuildNotFound
		}
		return fmt.Errorf("resolve guild: %w", err)
	}

	relay := s.listings.RelayChannelID()
	if relay == "" {
		return apperrors.Internal("report relay channel is not configured")
	}

	report := listing.Report{
		GuildID:      g.ID,
		GuildName:    g.Name,
		ReporterID:   reporter.ID,
		ReporterName: reporter.Username,
		Text:         text,
		InviteCode:   entry.InviteCode,
	}
	if err = s.actions.SendEmbed(ctx, relay, report.Embed()); err != nil {
		return fmt.Errorf("relay report: %w", err)
	}

	// The report is filed once the relay has it; a closed DM inbox does not undo that.
	if dmErr := s.actions.SendDirect(ctx, reporter.ID, report.Acknowledgement()); dmErr != nil {
		s.logger.WarnContext(ctx, "failed to acknowledge report", "reporter_id", reporter.ID, "error", dmErr)
	}
	return nil
}

// AutoAdmit joins the principal to a guild using their own access token. Being
// a member already is not an error, and callers cannot tell the two apart.
func (s *GuildActionService) AutoAdmit(ctx context.Context, guildID string, p *domainauth.Principal) error {
	if p == nil {
		return apperrors.Unauthenticated("not logged in")
	}
	if _, err := s.directory.LookupGuild(ctx, guildID); err != nil {
		if apperrors.IsNotFound(err) {
			return ErrGuildNotFound
		}
		return fmt.Errorf("resolve guild: %w", err)
	}

	_, err := s.directory.LookupMember(ctx, guildID, p.UserID)
	switch {
	case err == nil:
		return nil
	case !apperrors.IsNotFound(err):
		return fmt.Errorf("resolve membership: %w", err)
	}

	if err = s.actions.AddMember(ctx, guildID, p.UserID, p.AccessToken); err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

// PublicListings returns every listing resolved to its guild's name. Guilds that
// cannot be resolved are listed by id only.
func (s *GuildActionService) PublicListings(ctx context.Context) ([]PublicListing, error) {
	entries, err := s.listings.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]PublicListing, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listingLookupConcurrency)
	for i, e := range entries {
		out[i] = PublicListing{Entry: e}
		g.Go(func() error {
			gd, lookupErr := s.directory.LookupGuild(gctx, e.GuildID)
			if lookupErr != nil {
				if errors.Is(lookupErr, context.Canceled) {
					return lookupErr
				}
				if !apperrors.IsNotFound(lookupErr) {
					s.logger.WarnContext(gctx, "failed to resolve listed guild", "guild_id", e.GuildID, "error", lookupErr)
				}
				return nil
			}
			out[i].GuildName = gd.Name
			out[i].Icon = gd.Icon
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats is what the public stats page shows.
type Stats struct {
	Guilds  int
	Members int
	Listed  int
}

// Stats gathers the bot's reach and the listing count concurrently.
func (s *GuildActionService) Stats(ctx context.Context) (Stats, error) {
	if s.stats == nil {
		return Stats{}, apperrors.Internal("stats source not configured")
	}
	var (
		bot     guild.BotStats
		entries []listing.Entry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bot, err = s.stats.BotStats(gctx)
		if err != nil {
			return fmt.Errorf("bot stats: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		entries, err = s.listings.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return Stats{Guilds: bot.Guilds, Members: bot.Members, Listed: len(entries)}, nil
}

// ManageableGuilds lists the principal's guilds where they hold manage-guild,
// flagged with whether the bot is present. It is for display only; every
// action re-runs the guard.
func (s *GuildActionService) ManageableGuilds(ctx context.Context, p *domainauth.Principal) ([]guild.Summary, error) {
	if p == nil {
		return nil, apperrors.Unauthenticated("not logged in")
	}
	all, err := s.userGuilds.UserGuilds(ctx, p.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("list user guilds: %w", err)
	}
	botGuilds, err := s.directory.BotGuildIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bot guilds: %w", err)
	}

	out := make([]guild.Summary, 0, len(all))
	for _, g := range all {
		if !g.Manageable() {
			continue
		}
		g.BotPresent = botGuilds[g.ID]
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

// resolveTarget runs the guard, then validates the channel reference and text.
func (s *GuildActionService) resolveTarget(
	ctx context.Context,
	p *domainauth.Principal,
	guildID, channelRef, text string,
) (guild.Channel, error) {
	v, err := s.Authorize(ctx, p, guildID)
	if err != nil {
		return guild.Channel{}, err
	}
	ch, ok := guild.FindChannel(v.Guild.Channels, channelRef)
	if !ok {
		return guild.Channel{}, ErrInvalidChannel
	}
	if strings.TrimSpace(text) == "" {
		return guild.Channel{}, ErrEmptyMessage
	}
	return ch, nil
}
