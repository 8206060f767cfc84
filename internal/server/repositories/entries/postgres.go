// Package entries provides the PostgreSQL-backed repository for journal
// entries, including the trash lifecycle on deleted_at.
//
// Every statement is scoped by user_id (the denormalized owner reference);
// the service layer additionally resolves ownership through the parent
// journal before writes.
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

const entryColumns = `id, journal_id, user_id, title, content, entry_date, archived, mood, deleted_at, created_at, updated_at`

func scanEntry(row interface{ Scan(...any) error }) (*models.Entry, error) {
	var e models.Entry
	var mood sql.NullString
	if err := row.Scan(&e.ID, &e.JournalID, &e.UserID, &e.Title, &e.Content,
		&e.EntryDate, &e.Archived, &mood, &e.DeletedAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Mood = models.Mood(mood.String)
	return &e, nil
}

func nullableMood(m models.Mood) sql.NullString {
	return sql.NullString{String: string(m), Valid: m != ""}
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	query := `
		INSERT INTO entries (journal_id, user_id, title, content, entry_date, archived, mood)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		entry.JournalID, entry.UserID, entry.Title, entry.Content,
		entry.EntryDate, entry.Archived, nullableMood(entry.Mood)).Scan(&entry.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}

// Get returns the entry regardless of trash state; owners may see their
// soft-deleted rows.
func (r *PostgresRepository) Get(ctx context.Context, id, userID string) (*models.Entry, error) {
	query := `
		SELECT ` + entryColumns + ` FROM entries
		WHERE id = $1 AND user_id = $2
	`
	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) queryEntries(ctx context.Context, query string, args ...any) ([]*models.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) ListActive(ctx context.Context, journalID, userID string) ([]*models.Entry, error) {
	query := `
		SELECT ` + entryColumns + ` FROM entries
		WHERE journal_id = $1 AND user_id = $2 AND deleted_at IS NULL
		ORDER BY entry_date DESC, created_at DESC
	`
	return r.queryEntries(ctx, query, journalID, userID)
}

func (r *PostgresRepository) ListTrashed(ctx context.Context, userID string) ([]*models.Entry, error) {
	query := `
		SELECT ` + entryColumns + ` FROM entries
		WHERE user_id = $1 AND deleted_at IS NOT NULL
		ORDER BY deleted_at DESC
	`
	return r.queryEntries(ctx, query, userID)
}

// ListExpiredTrash returns trashed entries across all owners whose deletion
// timestamp predates cutoff. Used only by the service-principal purge job.
func (r *PostgresRepository) ListExpiredTrash(ctx context.Context, cutoff time.Time) ([]*models.Entry, error) {
	query := `
		SELECT ` + entryColumns + ` FROM entries
		WHERE deleted_at IS NOT NULL AND deleted_at < $1
		ORDER BY deleted_at
	`
	return r.queryEntries(ctx, query, cutoff)
}

// Update rewrites the mutable columns of an active entry, owner-scoped.
// journal_id and user_id never appear in the SET list.
func (r *PostgresRepository) Update(ctx context.Context, entry *models.Entry) error {
	query := `
		UPDATE entries
		SET title = $3, content = $4, entry_date = $5, archived = $6, mood = $7, updated_at = now()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Title, entry.Content,
		entry.EntryDate, entry.Archived, nullableMood(entry.Mood))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

// SoftDelete stamps deleted_at. Re-trashing a trashed entry just refreshes
// the timestamp; concurrent calls race harmlessly.
func (r *PostgresRepository) SoftDelete(ctx context.Context, id, userID string) error {
	query := `
		UPDATE entries SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

// Restore clears deleted_at, conditional on the row being trashed.
func (r *PostgresRepository) Restore(ctx context.Context, id, userID string) error {
	query := `
		UPDATE entries SET deleted_at = NULL, updated_at = now()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NOT NULL
	`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

// Purge removes a trashed row permanently. The deleted_at guard makes the
// trashed precondition hold even against a concurrent restore.
func (r *PostgresRepository) Purge(ctx context.Context, id, userID string) error {
	query := `
		DELETE FROM entries
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NOT NULL
	`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
