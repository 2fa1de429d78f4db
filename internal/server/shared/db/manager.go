// Package db wires the per-entity repositories to a concrete store and
// owns schema migrations.
package db

import (
	"context"
	"database/sql"

	"github.com/anikulin/linkstash/internal/server/groups"
	"github.com/anikulin/linkstash/internal/server/tree"
	"github.com/anikulin/linkstash/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Tree() tree.Repository
	Groups() groups.Repository
	Users() users.Repository
}
