package data

import apperrors "github.com/guildboard/guildboard/internal/errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrListingNotFound is returned when a guild has no listing entry.
	ErrListingNotFound = apperrors.NotFound("listing not found")
)
