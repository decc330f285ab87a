package tasks

import (
	"context"

	"github.com/CS-Kiran/Manana/internal/server/models"
)

// Repository is the sole access path to task rows. Every operation filters by
// owner id; a miss never reveals whether the task exists under another owner.
type Repository interface {
	Insert(ctx context.Context, task *models.Task) (*models.Task, error)
	FindAllByOwner(ctx context.Context, ownerID string) ([]*models.Task, error)
	FindOneByOwnerAndID(ctx context.Context, ownerID, taskID string) (*models.Task, error)
	UpdateByOwnerAndID(ctx context.Context, task *models.Task) (*models.Task, error)
	DeleteByOwnerAndID(ctx context.Context, ownerID, taskID string) error
}
