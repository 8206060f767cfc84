// Package services contains the backend's business logic: session handling,
// profile management, journals and entries with their trash lifecycle,
// admin content, registration tokens and contact intake. Services are the
// application's API; every operation takes the acting principal and enforces
// the authorization rules before touching a repository.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sistahology/backend/internal/common"
	"github.com/sistahology/backend/internal/dbx"
	"github.com/sistahology/backend/internal/server/auth"
	"github.com/sistahology/backend/internal/server/config"
	"github.com/sistahology/backend/internal/server/models"
	"github.com/sistahology/backend/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AccountService handles registration, login and refresh-token rotation.
// Registration may atomically consume an admin registration token; the
// consume and the admin grant happen in the same transaction as the account
// creation, so there is no observable state where one holds without the
// other.
type AccountService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AccountService {
	return &AccountService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates the identity row and its profile. If registrationToken is
// non-empty it is consumed in the same transaction and the new profile is
// granted admin; an invalid token fails the whole registration with
// common.ErrorTokenInvalid and leaves nothing behind.
func (s *AccountService) Register(ctx context.Context, email, password, displayName, registrationToken string) (*models.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email must not be empty", common.ErrorValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", common.ErrorValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var profile *models.Profile
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		userRepo := s.repomanager.Users(tx)
		profileRepo := s.repomanager.Profiles(tx)

		user, err := userRepo.Create(ctx, &models.User{Email: email, PasswordHash: hash})
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}

		profile = &models.Profile{ID: user.ID, Email: email, DisplayName: displayName}
		if err := profileRepo.Create(ctx, profile); err != nil {
			return fmt.Errorf("error creating profile: %w", err)
		}

		if registrationToken != "" {
			tokenRepo := s.repomanager.AdminTokens(tx)
			if err := tokenRepo.Consume(ctx, registrationToken, user.ID, email); err != nil {
				return err
			}
			if err := profileRepo.SetAdmin(ctx, user.ID, true); err != nil {
				return err
			}
			profile.IsAdmin = true
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorTokenInvalid) {
			return nil, common.ErrorTokenInvalid
		}
		return nil, err
	}

	return profile, nil
}

// Login verifies the credentials and, on success, returns a new TokenPair.
func (s *AccountService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	userRepo := s.repomanager.Users(s.db)
	user, err := userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Burn a comparison anyway so absent and present accounts take
			// comparable time.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	profile, err := s.repomanager.Profiles(s.db).Get(ctx, user.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return s.generateTokenPair(ctx, profile, s.db)
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *AccountService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	profile, err := s.repomanager.Profiles(s.db).Get(ctx, token.UserID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, profile, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// dummyHash is a bcrypt hash of an unguessable value, used to equalize
// login timing for unknown accounts.
var dummyHash = func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("sistahology-dummy"), bcrypt.DefaultCost)
	return h
}()

func (s *AccountService) generateTokenPair(ctx context.Context, profile *models.Profile, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(profile.ID, profile.Email, profile.IsAdmin, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, profile.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
