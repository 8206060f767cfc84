// Package contact provides the PostgreSQL-backed repository for contact
// form submissions.
package contact

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

func (r *PostgresRepository) Create(ctx context.Context, submission *models.ContactSubmission) (*models.ContactSubmission, error) {
	query := `
		INSERT INTO contact_submissions (name, email, subject, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status
	`
	err := r.db.QueryRowContext(ctx, query,
		submission.Name, submission.Email, submission.Subject, submission.Message).
		Scan(&submission.ID, &submission.Status)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return submission, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.ContactSubmission, error) {
	query := `
		SELECT id, name, email, subject, message, status, created_at, updated_at
		FROM contact_submissions
		WHERE id = $1
	`
	c := &models.ContactSubmission{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.ContactSubmission, error) {
	query := `
		SELECT id, name, email, subject, message, status, created_at, updated_at
		FROM contact_submissions
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.ContactSubmission
	for rows.Next() {
		var c models.ContactSubmission
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message,
			&c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status models.ContactStatus) error {
	query := `
		UPDATE contact_submissions SET status = $2, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, status)
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
