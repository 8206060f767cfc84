package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sistahology/backend/internal/common"
	"github.com/sistahology/backend/internal/server/authz"
	"github.com/sistahology/backend/internal/server/config"
	"github.com/sistahology/backend/internal/server/models"
	"github.com/sistahology/backend/internal/server/repositories/repomanager"
)

// EntryService manages journal entries and their trash lifecycle
// (active → trashed → restored or purged). Owner-only throughout.
type EntryService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	trashRetention time.Duration
}

func NewEntryService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *EntryService {
	return &EntryService{db: db, repomanager: m, trashRetention: cfg.TrashRetention}
}

// Create validates the entry and attaches it to the principal's journal.
// The denormalized owner reference is taken from the parent journal row,
// never from the caller, so the two references cannot diverge.
func (s *EntryService) Create(ctx context.Context, p authz.Principal, entry *models.Entry) (*models.Entry, error) {
	if !p.Authenticated() {
		return nil, common.ErrorForbidden
	}

	journal, err := s.repomanager.Journals(s.db).Get(ctx, entry.JournalID, p.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	if !authz.OwnsJournal(p, journal) {
		return nil, common.ErrorNotFound
	}
	entry.UserID = journal.UserID

	if err := entry.Validate(time.Now()); err != nil {
		return nil, err
	}

	return s.repomanager.Entries(s.db).Create(ctx, entry)
}

// Get returns the entry including soft-deleted ones; owners may inspect
// their trash.
func (s *EntryService) Get(ctx context.Context, p authz.Principal, id string) (*models.Entry, error) {
	if !p.Authenticated() {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Entries(s.db).Get(ctx, id, p.UserID)
}

func (s *EntryService) Update(ctx context.Context, p authz.Principal, entry *models.Entry) error {
	if !p.Authenticated() {
		return common.ErrorForbidden
	}
	entry.UserID = p.UserID
	if err := entry.Validate(time.Now()); err != nil {
		return err
	}
	return s.repomanager.Entries(s.db).Update(ctx, entry)
}

func (s *EntryService) ListActive(ctx context.Context, p authz.Principal, journalID string) ([]*models.Entry, error) {
	if !p.Authenticated() {
		return nil, nil
	}
	return s.repomanager.Entries(s.db).ListActive(ctx, journalID, p.UserID)
}

func (s *EntryService) ListTrashed(ctx context.Context, p authz.Principal) ([]*models.Entry, error) {
	if !p.Authenticated() {
		return nil, nil
	}
	return s.repomanager.Entries(s.db).ListTrashed(ctx, p.UserID)
}

// SoftDelete moves the entry to trash. Already-trashed entries just get a
// fresh deletion timestamp; concurrent calls race harmlessly.
func (s *EntryService) SoftDelete(ctx context.Context, p authz.Principal, id string) error {
	if !p.Authenticated() {
		return common.ErrorForbidden
	}
	return s.repomanager.Entries(s.db).SoftDelete(ctx, id, p.UserID)
}

// Restore returns a trashed entry to the active state.
func (s *EntryService) Restore(ctx context.Context, p authz.Principal, id string) error {
	if !p.Authenticated() {
		return common.ErrorForbidden
	}

	entry, err := s.repomanager.Entries(s.db).Get(ctx, id, p.UserID)
	if err != nil {
		return err
	}
	if !entry.Trashed() {
		return common.ErrorNotTrashed
	}

	return s.repomanager.Entries(s.db).Restore(ctx, id, p.UserID)
}

// Purge permanently removes a trashed entry. Purging an active entry is
// rejected: hard delete requires the row to already be in trash.
func (s *EntryService) Purge(ctx context.Context, p authz.Principal, id string) error {
	if !p.Authenticated() {
		return common.ErrorForbidden
	}

	entry, err := s.repomanager.Entries(s.db).Get(ctx, id, p.UserID)
	if err != nil {
		return err
	}
	if !entry.Trashed() {
		return common.ErrorNotTrashed
	}

	// The repository re-checks deleted_at in the DELETE itself, so a restore
	// racing this purge wins cleanly.
	return s.repomanager.Entries(s.db).Purge(ctx, id, p.UserID)
}

// PurgeExpiredTrash removes entries trashed longer ago than the configured
// retention window. It is an opt-in scheduled operation for service
// principals; no automatic purge runs anywhere.
func (s *EntryService) PurgeExpiredTrash(ctx context.Context, p authz.Principal) (int, error) {
	if !p.IsService() {
		return 0, common.ErrorForbidden
	}

	cutoff := time.Now().Add(-s.trashRetention)
	expired, err := s.repomanager.Entries(s.db).ListExpiredTrash(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, e := range expired {
		if err := s.repomanager.Entries(s.db).Purge(ctx, e.ID, e.UserID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				// restored or purged concurrently
				continue
			}
			return purged, fmt.Errorf("error purging entry %s: %w", e.ID, err)
		}
		purged++
	}
	return purged, nil
}
