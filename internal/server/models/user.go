package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a row in the users table. PasswordHash is a bcrypt hash and never
// leaves the service layer.
type User struct {
	ID             uuid.UUID
	Username       string
	Email          string
	PasswordHash   string
	Roles          []string
	ProfilePicture string
	CreatedAt      time.Time
}
