// Package refreshtokens provides a PostgreSQL-backed repository for the
// refresh tokens used in the authentication flow.
package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/teamsphere/api/internal/common"
	"github.com/teamsphere/api/internal/dbx"
	"github.com/teamsphere/api/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create upserts on user_id: a user logging in again gets their previous
// token replaced rather than a second live row.
func (r *PostgresRepository) Create(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at
	`
	if _, err := r.db.ExecContext(ctx, query, userID, token, expiresAt); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `
		SELECT token, user_id, expires_at
		FROM refresh_tokens
		WHERE token = $1
	`
	return r.scanToken(r.db.QueryRowContext(ctx, query, token))
}

func (r *PostgresRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.RefreshToken, error) {
	query := `
		SELECT token, user_id, expires_at
		FROM refresh_tokens
		WHERE user_id = $1
	`
	return r.scanToken(r.db.QueryRowContext(ctx, query, userID))
}

// Replace is the rotation primitive: one UPDATE keyed on the old token value.
// Two concurrent rotations of the same token cannot both match the row, so
// the loser observes common.ErrorNotFound.
func (r *PostgresRepository) Replace(ctx context.Context, oldToken, newToken string) error {
	query := `
		UPDATE refresh_tokens
		SET token = $2
		WHERE token = $1
	`
	res, err := r.db.ExecContext(ctx, query, oldToken, newToken)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// PurgeExpired combines the expiry check and the delete in one statement so
// no concurrent reader can accept the token between check and purge.
func (r *PostgresRepository) PurgeExpired(ctx context.Context, token string, now time.Time) (bool, error) {
	query := `
		DELETE FROM refresh_tokens
		WHERE token = $1 AND expires_at < $2
	`
	res, err := r.db.ExecContext(ctx, query, token, now)
	if err != nil {
		return false, fmt.Errorf("error performing sql request: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected > 0, nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	query := `
		DELETE FROM refresh_tokens
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

func (r *PostgresRepository) scanToken(row *sql.Row) (*models.RefreshToken, error) {
	rt := &models.RefreshToken{}
	if err := row.Scan(&rt.Token, &rt.UserID, &rt.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rt, nil
}
