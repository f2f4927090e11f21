package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a row in the refresh_tokens table. Token is an opaque
// random string, unique across the table; at most one row exists per user.
type RefreshToken struct {
	Token     string
	UserID    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}
