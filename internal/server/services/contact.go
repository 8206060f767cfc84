package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sistahology/backend/internal/common"
	"github.com/sistahology/backend/internal/server/authz"
	"github.com/sistahology/backend/internal/server/config"
	"github.com/sistahology/backend/internal/server/models"
	"github.com/sistahology/backend/internal/server/repositories/repomanager"
)

// ContactService handles the public contact form: anyone may submit,
// admins triage. There is no delete operation anywhere in this service or
// its repository; submissions are a permanent audit trail.
type ContactService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewContactService(db *sql.DB, m repomanager.RepositoryManager, _ *config.Config) *ContactService {
	return &ContactService{db: db, repomanager: m}
}

// Submit records a contact form submission. Open to anonymous callers;
// only field validation can reject it.
func (s *ContactService) Submit(ctx context.Context, _ authz.Principal, submission *models.ContactSubmission) (*models.ContactSubmission, error) {
	if err := submission.Validate(); err != nil {
		return nil, err
	}
	return s.repomanager.Contact(s.db).Create(ctx, submission)
}

func (s *ContactService) Get(ctx context.Context, p authz.Principal, id string) (*models.ContactSubmission, error) {
	if !authz.CanReadContact(p) {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Contact(s.db).Get(ctx, id)
}

// List returns all submissions for admin triage. Non-admin callers get an
// empty result, matching the zero-rows denial convention.
func (s *ContactService) List(ctx context.Context, p authz.Principal) ([]*models.ContactSubmission, error) {
	if !authz.CanReadContact(p) {
		return nil, nil
	}
	return s.repomanager.Contact(s.db).List(ctx)
}

func (s *ContactService) UpdateStatus(ctx context.Context, p authz.Principal, id string, status models.ContactStatus) error {
	if !authz.CanReadContact(p) {
		return common.ErrorForbidden
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", common.ErrorValidation, status)
	}
	return s.repomanager.Contact(s.db).UpdateStatus(ctx, id, status)
}
