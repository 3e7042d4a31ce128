package service

import (
	"context"
	"fmt"

	"github.com/guildboard/guildboard/internal/domain/guild"
	apperrors "github.com/guildboard/guildboard/internal/errors"
	"github.com/guildboard/guildboard/internal/ports"
)

// Guard decides whether a user may manage a guild. It reads membership and
// roles live on every call and holds no cache, so a permission change takes
// effect on the next request.
type Guard struct {
	directory ports.GuildDirectory
}

// NewGuard constructs a Guard.
func NewGuard(directory ports.GuildDirectory) *Guard {
	return &Guard{directory: directory}
}

// Authorize resolves the guild and the user's membership and evaluates the
// manage-guild predicate. Absent guilds and members are denials, not errors;
// the error return is reserved for remote failures.
func (g *Guard) Authorize(ctx context.Context, userID, guildID string) (guild.Verdict, error) {
	gd, err := g.directory.LookupGuild(ctx, guildID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return guild.Evaluate(nil, nil), nil
		}
		return guild.Verdict{}, fmt.Errorf("resolve guild %s: %w", guildID, err)
	}

	m, err := g.directory.LookupMember(ctx, guildID, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return guild.Evaluate(gd, nil), nil
		}
		return guild.Verdict{}, fmt.Errorf("resolve member %s: %w", userID, err)
	}

	return guild.Evaluate(gd, m), nil
}

// Require is Authorize with the denial folded into the error: a denied
// verdict becomes a forbidden AppError carrying the reason.
func (g *Guard) Require(ctx context.Context, userID, guildID string) (guild.Verdict, error) {
	v, err := g.Authorize(ctx, userID, guildID)
	if err != nil {
		return v, err
	}
	if !v.Granted {
		return v, DeniedError(v.Reason)
	}
	return v, nil
}
