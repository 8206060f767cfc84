package entries

import (
	"context"
	"time"

	"github.com/sistahology/backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	Get(ctx context.Context, id, userID string) (*models.Entry, error)
	ListActive(ctx context.Context, journalID, userID string) ([]*models.Entry, error)
	ListTrashed(ctx context.Context, userID string) ([]*models.Entry, error)
	ListExpiredTrash(ctx context.Context, cutoff time.Time) ([]*models.Entry, error)
	Update(ctx context.Context, entry *models.Entry) error
	SoftDelete(ctx context.Context, id, userID string) error
	Restore(ctx context.Context, id, userID string) error
	Purge(ctx context.Context, id, userID string) error
}
