package service

import (
	"errors"
	"fmt"

	"github.com/guildboard/guildboard/internal/domain/guild"
	apperrors "github.com/guildboard/guildboard/internal/errors"
)

// Action outcomes shown to the user. Compare with errors.Is.
var (
	ErrInvalidChannel    = apperrors.ValidationField("channel", "Invalid channel")
	ErrEmptyMessage      = apperrors.ValidationField("message", "No message provided")
	ErrMessageTooLong    = apperrors.ValidationField("message", fmt.Sprintf("Message is too long (at most %d characters)", guild.MaxMessageLength))
	ErrEmbedTooLong      = apperrors.ValidationField("message", fmt.Sprintf("Message is too long (at most %d characters)", guild.MaxDescriptionLength))
	ErrReportTooLong     = apperrors.ValidationField("message", fmt.Sprintf("Report is too long (at most %d characters)", guild.MaxFieldValueLength))
	ErrInvalidColor      = &apperrors.AppError{Code: apperrors.ErrCodeValidation, Message: "Invalid color", Field: "color", Cause: guild.ErrInvalidColor}
	ErrAlreadyRegistered = apperrors.Conflict("This server is already published on the servers list")
	ErrNotRegistered     = apperrors.NotFound("This server has not been published yet")
	ErrNotListed         = apperrors.NotFound("This server is not on the servers list")
	ErrUnknownReporter   = apperrors.NotFound("Could not resolve your account")
	ErrGuildNotFound     = apperrors.NotFound("Unknown server")
)

// ErrAuthFailed wraps every login failure. The caller cannot tell consent
// denial from provider or network failures, and does not need to.
var ErrAuthFailed = errors.New("authentication failed")

// ErrDenied marks guard denials. A platform-side 403 is forbidden too but does
// not match it.
var ErrDenied = errors.New("guard denied")

// DeniedError reports a guard denial. It carries the reason, matches
// apperrors.IsForbidden and wraps ErrDenied.
func DeniedError(reason guild.DenyReason) error {
	return &apperrors.AppError{Code: apperrors.ErrCodeForbidden, Message: string(reason), Cause: ErrDenied}
}
