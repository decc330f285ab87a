package repomanager

import (
	"context"
	"database/sql"

	"github.com/CS-Kiran/Manana/internal/dbx"
	"github.com/CS-Kiran/Manana/internal/server/repositories/refreshtokens"
	"github.com/CS-Kiran/Manana/internal/server/repositories/tasks"
	"github.com/CS-Kiran/Manana/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tasks(db dbx.DBTX) tasks.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
