// Package repomanager constructs repositories over a shared database
// handle. Repositories are built per call against a dbx.DBTX, so the same
// factory serves plain connections and transactions alike.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dkurochkin/courier/internal/dbx"
	"github.com/dkurochkin/courier/internal/server/repositories/messages"
	"github.com/dkurochkin/courier/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Messages(db dbx.DBTX) messages.Repository
}
