package db

import (
	"context"
	"database/sql"

	"github.com/anikulin/linkstash/internal/server/groups"
	"github.com/anikulin/linkstash/internal/server/tree"
	"github.com/anikulin/linkstash/internal/server/users"
)

// InMemoryRepositoryManager backs the repositories with in-process maps.
// Useful for tests and local experiments; state is lost on exit.
type InMemoryRepositoryManager struct {
	tree   tree.Repository
	groups groups.Repository
	users  users.Repository
}

func (m *InMemoryRepositoryManager) Conn() *sql.DB {
	return nil
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Tree() tree.Repository {
	return m.tree
}

func (m *InMemoryRepositoryManager) Groups() groups.Repository {
	return m.groups
}

func (m *InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return &InMemoryRepositoryManager{
		tree:   tree.NewMemoryRepository(),
		groups: groups.NewMemoryRepository(),
		users:  users.NewMemoryRepository(),
	}
}
