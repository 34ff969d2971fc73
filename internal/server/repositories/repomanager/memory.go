package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/herowall/internal/dbx"
	"github.com/dmitrijs2005/herowall/internal/server/repositories/cards"
	"github.com/dmitrijs2005/herowall/internal/server/repositories/collections"
	"github.com/dmitrijs2005/herowall/internal/server/repositories/memory"
	"github.com/dmitrijs2005/herowall/internal/server/repositories/users"
)

// MemoryRepositoryManager vends repositories over a single in-memory store.
// The DBTX arguments are ignored and may be nil.
type MemoryRepositoryManager struct {
	store *memory.Store
}

func NewMemoryRepositoryManager(store *memory.Store) RepositoryManager {
	return &MemoryRepositoryManager{store: store}
}

// RunMigrations is a no-op: the in-memory store has no schema.
func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.store.Users()
}

func (m *MemoryRepositoryManager) Cards(dbx.DBTX) cards.Repository {
	return m.store.Cards()
}

func (m *MemoryRepositoryManager) Collections(dbx.DBTX) collections.Repository {
	return m.store.Collections()
}
