// Package users declares the repository contract for user records.
package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/teamsphere/api/internal/server/models"
)

// Repository defines persistent-storage operations for users. Lookups return
// common.ErrorNotFound when no row matches.
type Repository interface {
	// Create inserts a new user and returns it with the generated ID.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns the user with the given email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user with the given ID.
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}
