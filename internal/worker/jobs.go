package worker

import (
	"context"

	"github.com/sousa16/chesslab/internal/logger"
	"github.com/sousa16/chesslab/internal/models"
)

// DigestJob tells one user how many moves are due.
type DigestJob struct {
	Stats    StatsProvider
	Notifier Notifier
	User     models.User
}

func (j *DigestJob) Name() string { return "due_digest" }

func (j *DigestJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"username": j.User.Username,
		"user_id":  j.User.ID,
	})

	stats, err := j.Stats.GetStats(ctx, j.User.ID)
	if err != nil {
		log.Error("failed to compute stats: %v", err)
		return err
	}
	if stats.DueCount == 0 {
		log.Debug("nothing due, skipping digest")
		return nil
	}
	log.Info("sending digest: due=%d", stats.DueCount)
	return j.Notifier.Notify(ctx, j.User, *stats)
}
