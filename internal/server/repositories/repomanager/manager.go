// Package repomanager selects the storage backend at startup and vends the
// repositories bound to it: users, refresh tokens and documents.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/smartnotes/internal/dbx"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/documents"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/users"
	"github.com/dmitrijs2005/smartnotes/internal/server/snapshot"
)

// RepositoryManager holds the repositories of one backend.
type RepositoryManager struct {
	backend  string
	users    users.Repository
	tokens   refreshtokens.Repository
	docs     documents.Store
	closeFns []func() error
}

// NewInMemory keeps everything in process memory.
func NewInMemory() *RepositoryManager {
	return &RepositoryManager{
		backend: "memory",
		users:   users.NewMemoryRepository(),
		tokens:  refreshtokens.NewMemoryRepository(),
		docs:    documents.NewSerialized(documents.NewMemoryStore()),
	}
}

// NewFile persists documents to a snapshot sink. Users and refresh tokens
// stay in process memory.
func NewFile(ctx context.Context, sink snapshot.Sink) (*RepositoryManager, error) {
	store, err := documents.OpenFileStore(ctx, sink)
	if err != nil {
		return nil, err
	}
	return &RepositoryManager{
		backend: "file",
		users:   users.NewMemoryRepository(),
		tokens:  refreshtokens.NewMemoryRepository(),
		docs:    documents.NewSerialized(store),
	}, nil
}

// NewSQL binds all repositories to db. The schema must already be migrated.
// Close closes db.
func NewSQL(db *sql.DB, dialect dbx.Dialect) *RepositoryManager {
	return &RepositoryManager{
		backend:  "relational",
		users:    users.NewSQLRepository(db, dialect),
		tokens:   refreshtokens.NewSQLRepository(db, dialect),
		docs:     documents.NewSQLStore(db, dialect),
		closeFns: []func() error{db.Close},
	}
}

func (m *RepositoryManager) Backend() string { return m.backend }
func (m *RepositoryManager) Users() users.Repository { return m.users }
func (m *RepositoryManager) RefreshTokens() refreshtokens.Repository { return m.tokens }
func (m *RepositoryManager) Documents() documents.Store { return m.docs }

// Close releases backend resources. It is safe to call more than once.
func (m *RepositoryManager) Close() error {
	var firstErr error
	for _, fn := range m.closeFns {
		if err := fn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closeFns = nil
	return firstErr
}
