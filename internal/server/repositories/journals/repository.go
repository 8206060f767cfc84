package journals

import (
	"context"

	"github.com/sistahology/backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, journal *models.Journal) (*models.Journal, error)
	Get(ctx context.Context, id, userID string) (*models.Journal, error)
	ListByOwner(ctx context.Context, userID string) ([]*models.Journal, error)
	Update(ctx context.Context, journal *models.Journal) error
	Delete(ctx context.Context, id, userID string) error
}
