package errors

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// reKeyField extracts field name from unique violation detail: "Key (field)=(value) already exists.".
var reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)

// MapDBError maps database errors to AppError instances.
// It handles:
// - sql.ErrNoRows / pgx.ErrNoRows → NotFound
// - Unique or primary key violations (Postgres and SQLite) → Conflict
// - NOT NULL / CHECK violations → Validation
// - Context timeouts/cancellations → Timeout/Canceled
//
// If the error is not a recognized database error, it returns the original error.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if mapped := mapContextError(err); mapped != nil {
		return mapped
	}

	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return &AppError{Code: ErrCodeNotFound, Message: "Resource not found", Cause: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return mapSQLiteError(liteErr)
	}

	return err
}

func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		field := pgErr.ColumnName
		if field == "" && pgErr.Detail != "" {
			if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
				field = m[1]
			}
		}
		return &AppError{
			Code:    ErrCodeConflict,
			Message: "This value already exists.",
			Field:   field,
			Cause:   pgErr,
		}
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		return &AppError{
			Code:    ErrCodeValidation,
			Message: "Invalid data. Please check your input.",
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	default:
		return &AppError{
			Code:    ErrCodeInternal,
			Message: "A database error occurred. Please try again.",
			Cause:   pgErr,
		}
	}
}

func mapSQLiteError(liteErr *sqlite.Error) error {
	switch liteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return &AppError{Code: ErrCodeConflict, Message: "This value already exists.", Cause: liteErr}
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL, sqlite3.SQLITE_CONSTRAINT_CHECK:
		return &AppError{Code: ErrCodeValidation, Message: "Invalid data. Please check your input.", Cause: liteErr}
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return &AppError{Code: ErrCodeUnavailable, Message: "The database is busy. Please try again.", Cause: liteErr}
	}

	// Without extended result codes only the primary code is reported.
	if liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		if strings.Contains(liteErr.Error(), "UNIQUE constraint failed") {
			return &AppError{Code: ErrCodeConflict, Message: "This value already exists.", Cause: liteErr}
		}
		return &AppError{Code: ErrCodeValidation, Message: "Invalid data. Please check your input.", Cause: liteErr}
	}

	return &AppError{
		Code:    ErrCodeInternal,
		Message: "A database error occurred. Please try again.",
		Cause:   liteErr,
	}
}

func mapContextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Code: ErrCodeTimeout, Message: "Request timed out. Please try again.", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{Code: ErrCodeCanceled, Message: "Request was canceled.", Cause: err}
	}
	return nil
}

// MapRemoteError maps a failure talking to the remote platform into an AppError.
// status is the HTTP status of the remote response, or 0 when no response was received.
// A 404 becomes NotFound so callers can distinguish absent guilds, members and users
// from outages.
func MapRemoteError(err error, status int) error {
	if err == nil {
		return nil
	}
	if mapped := mapContextError(err); mapped != nil {
		return mapped
	}
	switch {
	case status == http.StatusNotFound:
		return &AppError{Code: ErrCodeNotFound, Message: "Not found", Cause: err}
	case status == http.StatusUnauthorized:
		return &AppError{Code: ErrCodeUnauthenticated, Message: "Access token rejected", Cause: err}
	case status == http.StatusForbidden:
		return &AppError{Code: ErrCodeForbidden, Message: "Missing access", Cause: err}
	case status == http.StatusBadRequest:
		return &AppError{Code: ErrCodeValidation, Message: "Rejected by Discord", Cause: err}
	default:
		return &AppError{
			Code:    ErrCodeUnavailable,
			Message: "The remote service did not respond, try again",
			Cause:   err,
		}
	}
}
