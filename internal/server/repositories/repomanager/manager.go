// Package repomanager aggregates the repository implementations behind a
// single factory so services can obtain repositories bound to either the
// shared connection pool or an open transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/teamsphere/api/internal/dbx"
	"github.com/teamsphere/api/internal/server/repositories/refreshtokens"
	"github.com/teamsphere/api/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
