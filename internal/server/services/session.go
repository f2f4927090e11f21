package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/teamsphere/api/internal/common"
	"github.com/teamsphere/api/internal/dbx"
	"github.com/teamsphere/api/internal/logging"
	"github.com/teamsphere/api/internal/server/auth"
	"github.com/teamsphere/api/internal/server/models"
	"github.com/teamsphere/api/internal/server/repositories/repomanager"
)

// timeNow is an indirection for tests.
var timeNow = time.Now

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SessionService orchestrates login and refresh flows: it verifies
// credentials through UserService, signs access tokens through the codec,
// and owns the lifecycle of the persisted refresh tokens.
type SessionService struct {
	db         *sql.DB
	repos      repomanager.RepositoryManager
	users      *UserService
	codec      *auth.Codec
	refreshTTL time.Duration
	logger     logging.Logger
}

func NewSessionService(db *sql.DB, repos repomanager.RepositoryManager, users *UserService, codec *auth.Codec, refreshTTL time.Duration, logger logging.Logger) *SessionService {
	return &SessionService{
		db:         db,
		repos:      repos,
		users:      users,
		codec:      codec,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

// Login verifies credentials and, on success, returns a fresh TokenPair.
// The refresh token is upserted, so a second login replaces the previous
// session rather than leaving two live refresh tokens.
func (s *SessionService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.users.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}

	now := timeNow()

	access, err := s.codec.Issue(user.ID, user.Email, user.Roles, now)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refresh := uuid.NewString()
	if err := s.repos.RefreshTokens(s.db).Create(ctx, user.ID, refresh, now.Add(s.refreshTTL)); err != nil {
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "session created", "user_id", user.ID.String())
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// CreateRefreshToken issues a refresh token for the user identified by email,
// replacing any existing one. It fails with common.ErrUserNotFound when the
// identity cannot be resolved.
func (s *SessionService) CreateRefreshToken(ctx context.Context, email string) (*models.RefreshToken, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	now := timeNow()
	rt := &models.RefreshToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.refreshTTL),
	}

	if err := s.repos.RefreshTokens(s.db).Create(ctx, rt.UserID, rt.Token, rt.ExpiresAt); err != nil {
		return nil, err
	}
	return rt, nil
}

// Refresh exchanges a refresh token for a new TokenPair. The old token is
// rotated in place inside a transaction; an expired token is purged and
// reported as common.ErrRefreshTokenExpired, and an unknown (or already
// rotated) token as common.ErrorNotFound. No access token is required here;
// this is the recovery path after access-token expiry.
func (s *SessionService) Refresh(ctx context.Context, oldToken string) (*TokenPair, error) {
	now := timeNow()

	rec, err := s.repos.RefreshTokens(s.db).Find(ctx, oldToken)
	if err != nil {
		return nil, err
	}

	if rec.ExpiresAt.Before(now) {
		if _, err := s.repos.RefreshTokens(s.db).PurgeExpired(ctx, oldToken, now); err != nil {
			return nil, err
		}
		s.logger.Warn(ctx, "expired refresh token purged", "user_id", rec.UserID.String())
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		newToken := uuid.NewString()
		if err := s.repos.RefreshTokens(tx).Replace(ctx, oldToken, newToken); err != nil {
			return err
		}

		user, err := s.repos.Users(tx).GetByID(ctx, rec.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrUserNotFound
			}
			return err
		}

		access, err := s.codec.Issue(user.ID, user.Email, user.Roles, now)
		if err != nil {
			return common.ErrorInternal
		}

		pair = &TokenPair{AccessToken: access, RefreshToken: newToken}
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "refresh token rotated", "user_id", rec.UserID.String())
	return pair, nil
}

// Logout drops the user's refresh token. It is idempotent; logging out a
// user with no session is a no-op.
func (s *SessionService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.repos.RefreshTokens(s.db).DeleteByUser(ctx, userID)
}
