package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/promptmanager/internal/dbx"
	"github.com/dmitrijs2005/promptmanager/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX (a *sql.DB or a
// transaction) and owns the schema migrations for its backing.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
