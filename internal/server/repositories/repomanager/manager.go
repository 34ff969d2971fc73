package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/herowall/internal/dbx"
	"github.com/dmitrijs2005/herowall/internal/server/repositories/cards"
	"github.com/dmitrijs2005/herowall/internal/server/repositories/collections"
	"github.com/dmitrijs2005/herowall/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Cards(db dbx.DBTX) cards.Repository
	Collections(db dbx.DBTX) collections.Repository
}
