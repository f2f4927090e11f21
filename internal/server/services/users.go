// Package services contains the server-side business logic: credential
// verification, session issuance/rotation, and profile-picture storage.
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/teamsphere/api/internal/common"
	"github.com/teamsphere/api/internal/server/models"
	"github.com/teamsphere/api/internal/server/repositories/repomanager"
)

// dummyHash is a valid bcrypt hash compared against when the user does not
// exist, so lookups take the same time either way.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserService resolves users and verifies credentials. It is the collaborator
// the session layer delegates identity questions to.
type UserService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewUserService(db *sql.DB, repos repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repos: repos}
}

// FindByID returns the user with the given ID or common.ErrUserNotFound.
func (s *UserService) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repos.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// FindByEmail returns the user with the given email or common.ErrUserNotFound.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// VerifyCredentials checks email+password against the stored bcrypt hash.
// An unknown email and a wrong password are indistinguishable to the caller:
// both yield common.ErrInvalidCredentials.
func (s *UserService) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	return user, nil
}
