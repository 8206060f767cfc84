package profiles

import (
	"context"

	"github.com/sistahology/backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, profile *models.Profile) error
	Get(ctx context.Context, id string) (*models.Profile, error)
	UpdateDisplayName(ctx context.Context, id, displayName string) error
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
}
