package repository

import (
	"context"

	"github.com/sousa16/chesslab/internal/models"
)

// RepertoireRepository handles repertoire data access
type RepertoireRepository interface {
	// Create is idempotent: it returns the existing repertoire when the user
	// already has one for color.
	Create(ctx context.Context, userID int64, color models.Color) (*models.Repertoire, error)
	Get(ctx context.Context, userID int64, color models.Color) (*models.Repertoire, error)
	GetByID(ctx context.Context, id int64) (*models.Repertoire, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Repertoire, error)
}
