package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/promptmanager/internal/dbx"
	"github.com/dmitrijs2005/promptmanager/internal/server/repositories/users"
)

// InMemoryRepositoryManager hands out the same in-memory repositories
// whatever DBTX it is given. There is nothing to migrate.
type InMemoryRepositoryManager struct {
	users *users.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{users: users.NewMemoryRepository()}
}

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}
