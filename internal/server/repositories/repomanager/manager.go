package repomanager

import (
	"context"
	"database/sql"

	"github.com/sistahology/backend/internal/dbx"
	"github.com/sistahology/backend/internal/server/repositories/admintokens"
	"github.com/sistahology/backend/internal/server/repositories/attachments"
	"github.com/sistahology/backend/internal/server/repositories/contact"
	"github.com/sistahology/backend/internal/server/repositories/content"
	"github.com/sistahology/backend/internal/server/repositories/entries"
	"github.com/sistahology/backend/internal/server/repositories/journals"
	"github.com/sistahology/backend/internal/server/repositories/profiles"
	"github.com/sistahology/backend/internal/server/repositories/refreshtokens"
	"github.com/sistahology/backend/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a DBTX, so the same
// repository code runs against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Journals(db dbx.DBTX) journals.Repository
	Entries(db dbx.DBTX) entries.Repository
	Content(db dbx.DBTX) content.Repository
	AdminTokens(db dbx.DBTX) admintokens.Repository
	Contact(db dbx.DBTX) contact.Repository
	Attachments(db dbx.DBTX) attachments.Repository
}
