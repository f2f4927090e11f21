// Package common defines shared constants and sentinel errors used across
// the TeamSphere API layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Credential / user lookup errors.
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Access-token verification errors. Verify reports exactly one of these.
	ErrTokenExpired   = errors.New("token is expired")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrWrongAudience  = errors.New("wrong token audience")
	ErrMissingClaims  = errors.New("missing token claims")

	// Refresh-token lifecycle errors.
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Profile image errors.
	ErrUnsupportedImageType = errors.New("profile picture type is not allowed")
)
