package attachments

import (
	"context"

	"github.com/sistahology/backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, attachment *models.Attachment) (*models.Attachment, error)
	Get(ctx context.Context, id, userID string) (*models.Attachment, error)
	ListByEntry(ctx context.Context, entryID, userID string) ([]*models.Attachment, error)
	MarkUploaded(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id, userID string) error
}
