package worker

import (
	"context"

	"github.com/sousa16/chesslab/internal/models"
)

// StatsProvider computes a user's dashboard counters.
// It avoids an import cycle with the services package.
type StatsProvider interface {
	GetStats(ctx context.Context, userID int64) (*models.Stats, error)
}

// Notifier delivers a due-review digest. Delivery itself (email, push) lives
// outside this module.
type Notifier interface {
	Notify(ctx context.Context, user models.User, stats models.Stats) error
}
