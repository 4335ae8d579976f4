package repository

import (
	"context"

	"github.com/sousa16/chesslab/internal/models"
)

// PositionRepository handles the global, deduplicated position store
type PositionRepository interface {
	GetOrCreate(ctx context.Context, fen string) (int64, error)
	Get(ctx context.Context, id int64) (*models.Position, error)
	GetByFEN(ctx context.Context, fen string) (*models.Position, error)
	// DeleteIfOrphaned removes the position only when no entry references it.
	DeleteIfOrphaned(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int, error)
}
