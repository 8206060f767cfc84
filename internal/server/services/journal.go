package services

import (
	"context"
	"database/sql"

	"github.com/sistahology/backend/internal/common"
	"github.com/sistahology/backend/internal/server/authz"
	"github.com/sistahology/backend/internal/server/config"
	"github.com/sistahology/backend/internal/server/models"
	"github.com/sistahology/backend/internal/server/repositories/repomanager"
)

// JournalService manages journals. All operations are owner-only; admins get
// no blanket access to other users' journals.
type JournalService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewJournalService(db *sql.DB, m repomanager.RepositoryManager, _ *config.Config) *JournalService {
	return &JournalService{db: db, repomanager: m}
}

func (s *JournalService) Create(ctx context.Context, p authz.Principal, journal *models.Journal) (*models.Journal, error) {
	if !p.Authenticated() {
		return nil, common.ErrorForbidden
	}
	journal.UserID = p.UserID
	if err := journal.Validate(); err != nil {
		return nil, err
	}
	return s.repomanager.Journals(s.db).Create(ctx, journal)
}

// Get returns the journal. A journal that does not exist and a journal
// owned by someone else both come back as ErrorNotFound.
func (s *JournalService) Get(ctx context.Context, p authz.Principal, id string) (*models.Journal, error) {
	if !p.Authenticated() {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Journals(s.db).Get(ctx, id, p.UserID)
}

func (s *JournalService) List(ctx context.Context, p authz.Principal) ([]*models.Journal, error) {
	if !p.Authenticated() {
		return nil, nil
	}
	return s.repomanager.Journals(s.db).ListByOwner(ctx, p.UserID)
}

func (s *JournalService) Update(ctx context.Context, p authz.Principal, journal *models.Journal) error {
	if !p.Authenticated() {
		return common.ErrorForbidden
	}
	journal.UserID = p.UserID
	if err := journal.Validate(); err != nil {
		return err
	}
	return s.repomanager.Journals(s.db).Update(ctx, journal)
}

// Delete removes the journal; its entries cascade at the schema level.
func (s *JournalService) Delete(ctx context.Context, p authz.Principal, id string) error {
	if !p.Authenticated() {
		return common.ErrorForbidden
	}
	return s.repomanager.Journals(s.db).Delete(ctx, id, p.UserID)
}
