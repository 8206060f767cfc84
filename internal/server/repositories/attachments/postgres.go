// Package attachments provides the PostgreSQL-backed repository for entry
// attachment metadata. The bytes live in object storage under storage_key.
package attachments

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

const attachmentColumns = `id, entry_id, user_id, file_name, content_type, storage_key, upload_status, created_at`

func scanAttachment(row interface{ Scan(...any) error }) (*models.Attachment, error) {
	var a models.Attachment
	if err := row.Scan(&a.ID, &a.EntryID, &a.UserID, &a.FileName,
		&a.ContentType, &a.StorageKey, &a.UploadStatus, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, attachment *models.Attachment) (*models.Attachment, error) {
	query := `
		INSERT INTO entry_attachments (entry_id, user_id, file_name, content_type, storage_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		attachment.EntryID, attachment.UserID, attachment.FileName,
		attachment.ContentType, attachment.StorageKey).Scan(&attachment.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return attachment, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id, userID string) (*models.Attachment, error) {
	query := `
		SELECT ` + attachmentColumns + ` FROM entry_attachments
		WHERE id = $1 AND user_id = $2
	`
	a, err := scanAttachment(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) ListByEntry(ctx context.Context, entryID, userID string) ([]*models.Attachment, error) {
	query := `
		SELECT ` + attachmentColumns + ` FROM entry_attachments
		WHERE entry_id = $1 AND user_id = $2
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, entryID, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) MarkUploaded(ctx context.Context, id, userID string) error {
	query := `
		UPDATE entry_attachments SET upload_status = 'uploaded'
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

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	query := `
		DELETE FROM entry_attachments
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
