// Package journals provides the PostgreSQL-backed repository for journals.
//
// Every read and write is scoped by user_id, so a request made as the wrong
// user sees zero rows instead of an error, matching the row-security
// convention of the hosted deployment.
package journals

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

func (r *PostgresRepository) Create(ctx context.Context, journal *models.Journal) (*models.Journal, error) {
	query := `
		INSERT INTO journals (user_id, name, color, icon)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		journal.UserID, journal.Name, journal.Color, journal.Icon).Scan(&journal.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return journal, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id, userID string) (*models.Journal, error) {
	query := `
		SELECT id, user_id, name, color, icon, created_at, updated_at
		FROM journals
		WHERE id = $1 AND user_id = $2
	`
	j := &models.Journal{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&j.ID, &j.UserID, &j.Name, &j.Color, &j.Icon, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return j, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, userID string) ([]*models.Journal, error) {
	query := `
		SELECT id, user_id, name, color, icon, created_at, updated_at
		FROM journals
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Journal
	for rows.Next() {
		var j models.Journal
		if err := rows.Scan(&j.ID, &j.UserID, &j.Name, &j.Color, &j.Icon, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update rewrites the mutable columns, owner-scoped. The owner reference
// itself is immutable; it never appears in the SET list.
func (r *PostgresRepository) Update(ctx context.Context, journal *models.Journal) error {
	query := `
		UPDATE journals SET name = $3, color = $4, icon = $5, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		journal.ID, journal.UserID, journal.Name, journal.Color, journal.Icon)
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

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	query := `
		DELETE FROM journals
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, userID)
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
