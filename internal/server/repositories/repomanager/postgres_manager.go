// Package repomanager wires the PostgreSQL repositories together and runs
// the embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/sistahology/backend/internal/dbx"
	"github.com/sistahology/backend/internal/server/migrations"
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

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() (RepositoryManager, error) {
	return &PostgresRepositoryManager{}, nil
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Profiles(db dbx.DBTX) profiles.Repository {
	return profiles.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Journals(db dbx.DBTX) journals.Repository {
	return journals.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Entries(db dbx.DBTX) entries.Repository {
	return entries.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Content(db dbx.DBTX) content.Repository {
	return content.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) AdminTokens(db dbx.DBTX) admintokens.Repository {
	return admintokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Contact(db dbx.DBTX) contact.Repository {
	return contact.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Attachments(db dbx.DBTX) attachments.Repository {
	return attachments.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}
