package repository

import (
	"context"

	"github.com/sousa16/chesslab/internal/models"
)

// UserRepository handles user data access. Lookups of missing users return
// nil without an error.
type UserRepository interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Upsert(ctx context.Context, username string) (*models.User, error)
	SetReminders(ctx context.Context, id int64, enabled bool) error
	ListWithReminders(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id int64) error
}
