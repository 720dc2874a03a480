package repomanager

import (
	"context"
	"database/sql"

	"github.com/matchforge/gatherer/internal/dbx"
	"github.com/matchforge/gatherer/internal/gatherer/repositories/matches"
	"github.com/matchforge/gatherer/internal/gatherer/repositories/uploads"
	"github.com/matchforge/gatherer/internal/gatherer/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Matches(db dbx.DBTX) matches.Repository
	Uploads(db dbx.DBTX) uploads.Repository
}
