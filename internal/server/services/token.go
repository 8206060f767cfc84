package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sistahology/backend/internal/common"
	"github.com/sistahology/backend/internal/dbx"
	"github.com/sistahology/backend/internal/server/authz"
	"github.com/sistahology/backend/internal/server/config"
	"github.com/sistahology/backend/internal/server/models"
	"github.com/sistahology/backend/internal/server/repositories/repomanager"
)

// TokenService is the registration-token lifecycle: issue → consume (single
// use) or expire → reap. Consumption is the only write path that grants
// admin to a profile, and it is atomic with the grant.
type TokenService struct {
	db                      *sql.DB
	repomanager             repomanager.RepositoryManager
	defaultTTL              time.Duration
	allowAnonymousTokenPeek bool
}

func NewTokenService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *TokenService {
	return &TokenService{
		db:                      db,
		repomanager:             m,
		defaultTTL:              cfg.RegistrationTokenTTL,
		allowAnonymousTokenPeek: cfg.AllowAnonymousTokenPeek,
	}
}

// Issue creates a registration token. Admin-only. A zero ttl uses the
// configured default; a non-empty email binds the token to that address.
func (s *TokenService) Issue(ctx context.Context, p authz.Principal, email string, ttl time.Duration) (*models.RegistrationToken, error) {
	if !authz.CanManageTokens(p) {
		return nil, common.ErrorForbidden
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	secret, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	token := &models.RegistrationToken{
		Token:     secret,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		ExpiresAt: time.Now().Add(ttl),
		CreatedBy: p.UserID,
	}
	return s.repomanager.AdminTokens(s.db).Create(ctx, token)
}

// List returns all tokens, consumed ones included. Admin-only.
func (s *TokenService) List(ctx context.Context, p authz.Principal) ([]*models.RegistrationToken, error) {
	if !authz.CanManageTokens(p) {
		return nil, common.ErrorForbidden
	}
	return s.repomanager.AdminTokens(s.db).List(ctx)
}

// Delete removes a token by id. Admin-only.
func (s *TokenService) Delete(ctx context.Context, p authz.Principal, id string) error {
	if !authz.CanManageTokens(p) {
		return common.ErrorForbidden
	}
	return s.repomanager.AdminTokens(s.db).Delete(ctx, id)
}

// ValidateAndConsume consumes tokenString on behalf of userID and grants
// admin to that user's profile, all in one transaction. Either both effects
// commit or neither does. Every failure cause — unknown token, already
// consumed, expired, email mismatch, lost race — comes back as the single
// ErrorTokenInvalid.
func (s *TokenService) ValidateAndConsume(ctx context.Context, tokenString, presentedEmail, userID string) error {
	if tokenString == "" || userID == "" {
		return common.ErrorTokenInvalid
	}
	presentedEmail = strings.ToLower(strings.TrimSpace(presentedEmail))

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.AdminTokens(tx).Consume(ctx, tokenString, userID, presentedEmail); err != nil {
			return err
		}
		if err := s.repomanager.Profiles(tx).SetAdmin(ctx, userID, true); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorTokenInvalid) {
			return common.ErrorTokenInvalid
		}
		return fmt.Errorf("error consuming token: %w", err)
	}
	return nil
}

// CleanupExpired reaps unused, expired tokens and reports how many were
// removed. Consumed tokens are never touched. Admin or service only.
func (s *TokenService) CleanupExpired(ctx context.Context, p authz.Principal) (int64, error) {
	if !authz.CanManageTokens(p) {
		return 0, common.ErrorForbidden
	}
	return s.repomanager.AdminTokens(s.db).DeleteExpired(ctx)
}

// TokenMetadata is the non-sensitive subset exposed by Peek.
type TokenMetadata struct {
	Email     string
	ExpiresAt time.Time
	Usable    bool
}

// Peek returns registration-token metadata to anonymous callers for
// pre-registration UX, if the deployment opts in. It never reveals who
// consumed a token. Behind the flag because it deliberately trades a small
// amount of token-state exposure for form-validation UX.
func (s *TokenService) Peek(ctx context.Context, tokenString string) (*TokenMetadata, error) {
	if !s.allowAnonymousTokenPeek {
		return nil, common.ErrorNotFound
	}
	t, err := s.repomanager.AdminTokens(s.db).FindByToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	return &TokenMetadata{
		Email:     t.Email,
		ExpiresAt: t.ExpiresAt,
		Usable:    !t.Consumed() && !t.Expired(time.Now()),
	}, nil
}
