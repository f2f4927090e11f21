// Package refreshtokens declares the repository contract for the persisted
// refresh-token records backing session continuation.
package refreshtokens

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/teamsphere/api/internal/server/models"
)

// Repository defines operations for issuing, retrieving, rotating and
// revoking refresh tokens. The table holds at most one row per user;
// Create enforces this by upserting on user_id.
type Repository interface {
	// Create stores a refresh token for userID expiring at expiresAt,
	// replacing any existing token for the same user.
	Create(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error

	// Find looks up a refresh token by its opaque token string. It has no
	// side effects and returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// FindByUser returns the single active token for the given user, or
	// common.ErrorNotFound.
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.RefreshToken, error)

	// Replace overwrites the stored token value in place, keeping the row's
	// expiry. It returns common.ErrorNotFound when oldToken no longer exists,
	// which makes rotation exactly-once: a second Replace with the same
	// oldToken cannot succeed.
	Replace(ctx context.Context, oldToken, newToken string) error

	// PurgeExpired deletes the row for token if and only if it expired before
	// now, as a single atomic statement. It reports whether a row was purged.
	PurgeExpired(ctx context.Context, token string, now time.Time) (bool, error)

	// DeleteByUser removes the user's refresh token. Deleting when no row
	// exists is not an error.
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
