package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/guildboard/guildboard/internal/domain/listing"
	apperrors "github.com/guildboard/guildboard/internal/errors"
	"github.com/guildboard/guildboard/internal/ports"
)

// transientMessage is shown when the remote platform fails mid-action.
const transientMessage = "The remote service did not respond, try again"

// ListingServiceOptions groups dependencies for ListingService.
type ListingServiceOptions struct {
	Store   ports.ListingStore
	Actions ports.GuildActions
	// RelayChannelID receives registration notices and abuse reports.
	RelayChannelID string
	Now            func() time.Time
	Logger         *slog.Logger
}

// ListingService owns the public server list. The web dashboard and the chat
// commands both register and deregister through it.
type ListingService struct {
	store   ports.ListingStore
	actions ports.GuildActions
	relay   string
	now     func() time.Time
	logger  *slog.Logger
	locks   *keyedLock
}

// NewListingService constructs a ListingService.
func NewListingService(opts ListingServiceOptions) *ListingService {
	s := &ListingService{
		store:   opts.Store,
		actions: opts.Actions,
		relay:   opts.RelayChannelID,
		now:     opts.Now,
		logger:  opts.Logger,
		locks:   newKeyedLock(),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// RegisterInput identifies the guild to publish and the channel the invite points at.
type RegisterInput struct {
	GuildID   string
	GuildName string
	ChannelID string
}

// Register publishes a guild: it creates a permanent invite in the channel,
// stores it and announces it on the relay channel. A guild that is already
// listed keeps its entry and the caller gets ErrAlreadyRegistered. If any step
// after the invite fails, the invite and entry are removed again.
func (s *ListingService) Register(ctx context.Context, in RegisterInput) (listing.Entry, error) {
	if in.GuildID == "" {
		return listing.Entry{}, ErrGuildNotFound
	}
	if in.ChannelID == "" {
		return listing.Entry{}, ErrInvalidChannel
	}

	unlock := s.locks.Lock(in.GuildID)
	defer unlock()

	exists, err := s.store.Exists(ctx, in.GuildID)
	if err != nil {
		return listing.Entry{}, fmt.Errorf("check listing: %w", err)
	}
	if exists {
		return listing.Entry{}, ErrAlreadyRegistered
	}

	code, err := s.actions.CreateInvite(ctx, in.ChannelID)
	if err != nil {
		return listing.Entry{}, fmt.Errorf("create invite: %w", err)
	}

	entry := listing.Entry{GuildID: in.GuildID, InviteCode: code, CreatedAt: s.now().UTC()}
	created, err := s.store.SetIfAbsent(ctx, entry)
	if err != nil {
		s.revokeInvite(ctx, code)
		return listing.Entry{}, fmt.Errorf("store listing: %w", err)
	}
	if !created {
		// Another process registered between Exists and SetIfAbsent.
		s.revokeInvite(ctx, code)
		return listing.Entry{}, ErrAlreadyRegistered
	}

	if s.relay != "" {
		notice := listing.RegistrationNotice(in.GuildName, code)
		if sendErr := s.actions.SendMessage(ctx, s.relay, notice); sendErr != nil {
			s.rollback(ctx, entry)
			return listing.Entry{}, asTransient(fmt.Errorf("notify relay channel: %w", sendErr))
		}
	}

	s.logger.InfoContext(ctx, "guild listed", "guild_id", in.GuildID, "invite", code)
	return entry, nil
}

// Deregister removes a guild's entry and revokes its invite. Revocation is best
// effort; the entry is gone either way.
func (s *ListingService) Deregister(ctx context.Context, guildID string) error {
	unlock := s.locks.Lock(guildID)
	defer unlock()

	entry, err := s.store.Get(ctx, guildID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return ErrNotRegistered
		}
		return fmt.Errorf("get listing: %w", err)
	}

	deleted, err := s.store.Delete(ctx, guildID)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if !deleted {
		return ErrNotRegistered
	}

	s.revokeInvite(ctx, entry.InviteCode)
	s.logger.InfoContext(ctx, "guild unlisted", "guild_id", guildID)
	return nil
}

// Get returns the listing for a guild, or ErrNotListed.
func (s *ListingService) Get(ctx context.Context, guildID string) (listing.Entry, error) {
	entry, err := s.store.Get(ctx, guildID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return listing.Entry{}, ErrNotListed
		}
		return listing.Entry{}, fmt.Errorf("get listing: %w", err)
	}
	return entry, nil
}

// List returns every listing.
func (s *ListingService) List(ctx context.Context) ([]listing.Entry, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return entries, nil
}

// RelayChannelID returns the operator channel id.
func (s *ListingService) RelayChannelID() string { return s.relay }

func (s *ListingService) rollback(ctx context.Context, entry listing.Entry) {
	ctx = context.WithoutCancel(ctx)
	if _, err := s.store.Delete(ctx, entry.GuildID); err != nil {
		s.logger.ErrorContext(ctx, "rollback: failed to delete listing", "guild_id", entry.GuildID, "error", err)
	}
	s.revokeInvite(ctx, entry.InviteCode)
}

func (s *ListingService) revokeInvite(ctx context.Context, code string) {
	if code == "" {
		return
	}
	if err := s.actions.RevokeInvite(context.WithoutCancel(ctx), code); err != nil && !apperrors.IsNotFound(err) {
		s.logger.WarnContext(ctx, "failed to revoke invite", "invite", code, "error", err)
	}
}

// asTransient makes err report as a retryable remote failure.
func asTransient(err error) error {
	if apperrors.IsTransient(err) {
		return err
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code == apperrors.ErrCodeCanceled {
		return err
	}
	return apperrors.Wrap(err, apperrors.ErrCodeUnavailable, transientMessage)
}
