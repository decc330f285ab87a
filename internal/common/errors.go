// Package common defines shared constants and sentinel errors used across
// client and server layers of Manana. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors. ErrorNotFound also covers tasks owned by a
	// different user: the caller cannot tell a foreign task from a missing one.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorValidation   = errors.New("validation error")
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Signup/login-specific errors. The texts are user-facing.
	ErrInvalidEmailDomain = errors.New("invalid email domain")
	ErrNameRequired       = errors.New("name is required")
	ErrWeakPassword       = errors.New("password must be at least 8 characters with one uppercase letter")
	ErrEmailExists        = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrProviderMismatch reports an email already registered through the
	// other sign-in method. Accounts are never merged silently.
	ErrProviderMismatch = errors.New("email already registered with a different method")

	// Task-specific validation errors.
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
