package users

import (
	"context"

	"github.com/CS-Kiran/Manana/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	SetPasswordHash(ctx context.Context, id string, hash string) error
	SetExternalID(ctx context.Context, id string, externalID string) error
}
