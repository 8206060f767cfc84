// Package profiles provides the PostgreSQL-backed repository for profile
// rows.
//
// The admin flag has exactly one write path: SetAdmin. The generic update
// statement does not reference is_admin at all, so no caller can smuggle a
// privilege change through an ordinary profile update.
package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sistahology/backend/internal/common"
	"github.com/sistahology/backend/internal/dbx"
	"github.com/sistahology/backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the profile row for a new user. is_admin relies on the
// column default (false); it is not insertable here.
func (r *PostgresRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, email, display_name)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, profile.ID, profile.Email, profile.DisplayName); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Profile, error) {
	query := `
		SELECT id, email, display_name, is_admin, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`
	p := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Email, &p.DisplayName, &p.IsAdmin, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// UpdateDisplayName is the generic profile update. It deliberately touches
// only the mutable non-privileged columns.
func (r *PostgresRepository) UpdateDisplayName(ctx context.Context, id, displayName string) error {
	query := `
		UPDATE profiles SET display_name = $2, updated_at = now()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id, displayName); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// SetAdmin is the single statement that writes is_admin. It is reachable only
// from the registration-token consume transaction and from service-principal
// tooling.
func (r *PostgresRepository) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	query := `
		UPDATE profiles SET is_admin = $2, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, isAdmin)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
