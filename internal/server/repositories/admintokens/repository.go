package admintokens

import (
	"context"

	"github.com/sistahology/backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, token *models.RegistrationToken) (*models.RegistrationToken, error)
	FindByToken(ctx context.Context, token string) (*models.RegistrationToken, error)
	List(ctx context.Context) ([]*models.RegistrationToken, error)
	Consume(ctx context.Context, token, userID, presentedEmail string) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
