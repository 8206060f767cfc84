// Package common defines shared constants and sentinel errors used across
// the Sistahology backend. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// ErrorPrivilegeChange is returned when an ordinary principal tries to
	// change an admin flag through the regular profile update path. It is
	// deliberately distinct from ErrorForbidden so callers can surface it.
	ErrorPrivilegeChange = errors.New("forbidden: privilege change not permitted through this path")

	// Validation errors.
	ErrorValidation = errors.New("validation error")

	// Auth errors (invalid or malformed access token).
	ErrInvalidToken        = errors.New("invalid token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// ErrorTokenInvalid covers every registration-token failure: absent,
	// already consumed, expired, email mismatch, lost consume race. Collapsed
	// on purpose so the consume path cannot be used as a token oracle.
	ErrorTokenInvalid = errors.New("registration token invalid")

	// Trash lifecycle errors.
	ErrorNotTrashed = errors.New("entry is not in trash")

	ErrorAlreadyExists = errors.New("already exists")
)
