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

// ProfileService manages profile rows. Profiles are strictly self-only for
// ordinary principals; the admin flag can only be changed by a service
// principal (or by the token service's consume transaction, which bypasses
// this service entirely).
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, _ *config.Config) *ProfileService {
	return &ProfileService{db: db, repomanager: m}
}

func (s *ProfileService) Get(ctx context.Context, p authz.Principal, id string) (*models.Profile, error) {
	if !authz.CanAccessProfile(p, id) {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Profiles(s.db).Get(ctx, id)
}

func (s *ProfileService) UpdateDisplayName(ctx context.Context, p authz.Principal, id, displayName string) error {
	if !authz.CanAccessProfile(p, id) {
		return common.ErrorForbidden
	}
	return s.repomanager.Profiles(s.db).UpdateDisplayName(ctx, id, displayName)
}

// SetAdmin changes the admin flag. Only service principals may do this —
// any ordinary principal is rejected with ErrorPrivilegeChange, whether the
// target row is their own or not, and whatever the new value is.
func (s *ProfileService) SetAdmin(ctx context.Context, p authz.Principal, id string, isAdmin bool) error {
	if !p.IsService() {
		return common.ErrorPrivilegeChange
	}
	if err := s.repomanager.Profiles(s.db).SetAdmin(ctx, id, isAdmin); err != nil {
		return fmt.Errorf("error setting admin flag: %w", err)
	}
	return nil
}

// Delete removes the account (self-only, or service principal). It deletes
// the users row; the profile, journals, entries, refresh tokens and
// attachments all cascade from it at the schema level.
func (s *ProfileService) Delete(ctx context.Context, p authz.Principal, id string) error {
	if !authz.CanAccessProfile(p, id) {
		return common.ErrorForbidden
	}
	return s.repomanager.Users(s.db).Delete(ctx, id)
}
