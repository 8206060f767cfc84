// Package admintokens provides the PostgreSQL-backed repository for
// single-use admin registration tokens.
package admintokens

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

func (r *PostgresRepository) Create(ctx context.Context, token *models.RegistrationToken) (*models.RegistrationToken, error) {
	query := `
		INSERT INTO admin_registration_tokens (token, email, expires_at, created_by)
		VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''))
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		token.Token, token.Email, token.ExpiresAt, token.CreatedBy).Scan(&token.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return token, nil
}

func scanToken(row interface{ Scan(...any) error }) (*models.RegistrationToken, error) {
	var t models.RegistrationToken
	var email, usedBy, createdBy sql.NullString
	if err := row.Scan(&t.ID, &t.Token, &email, &t.ExpiresAt, &t.UsedAt,
		&usedBy, &createdBy, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Email = email.String
	t.UsedByUserID = usedBy.String
	t.CreatedBy = createdBy.String
	return &t, nil
}

const tokenColumns = `id, token, email, expires_at, used_at, used_by_user_id, created_by, created_at`

func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (*models.RegistrationToken, error) {
	query := `
		SELECT ` + tokenColumns + ` FROM admin_registration_tokens
		WHERE token = $1
	`
	t, err := scanToken(r.db.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.RegistrationToken, error) {
	query := `
		SELECT ` + tokenColumns + ` FROM admin_registration_tokens
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.RegistrationToken
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Consume marks the token used by userID, conditionally on it being unused,
// unexpired and (when email-bound) matching the presented email. The
// condition and the write are one statement, so of N racing consumers at
// most one sees RowsAffected=1; everyone else gets ErrorTokenInvalid.
// All failure causes collapse into that one error.
func (r *PostgresRepository) Consume(ctx context.Context, token, userID, presentedEmail string) error {
	query := `
		UPDATE admin_registration_tokens
		SET used_at = now(), used_by_user_id = $2
		WHERE token = $1
		  AND used_at IS NULL
		  AND expires_at > now()
		  AND (email IS NULL OR lower(email) = lower($3))
	`
	res, err := r.db.ExecContext(ctx, query, token, userID, presentedEmail)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return common.ErrorTokenInvalid
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM admin_registration_tokens
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
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

// DeleteExpired reaps unused tokens past expiry. Consumed tokens are never
// touched; they remain as an audit trail.
func (r *PostgresRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM admin_registration_tokens
		WHERE used_at IS NULL AND expires_at <= now()
	`
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
