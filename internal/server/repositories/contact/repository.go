package contact

import (
	"context"

	"github.com/sistahology/backend/internal/server/models"
)

// Repository has no delete operation: submissions are a permanent audit
// trail.
type Repository interface {
	Create(ctx context.Context, submission *models.ContactSubmission) (*models.ContactSubmission, error)
	Get(ctx context.Context, id string) (*models.ContactSubmission, error)
	List(ctx context.Context) ([]*models.ContactSubmission, error)
	UpdateStatus(ctx context.Context, id string, status models.ContactStatus) error
}
