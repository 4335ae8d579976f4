package jobs

import (
	"context"
	"fmt"

	"github.com/sousa16/chesslab/internal/repository"
	"github.com/sousa16/chesslab/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	digestPool *worker.Pool
	userRepo   repository.UserRepository
	stats      worker.StatsProvider
	notifier   worker.Notifier
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(
	digestPool *worker.Pool,
	userRepo repository.UserRepository,
	stats worker.StatsProvider,
	notifier worker.Notifier,
) JobQueue {
	return &WorkerQueue{
		digestPool: digestPool,
		userRepo:   userRepo,
		stats:      stats,
		notifier:   notifier,
	}
}

func (q *WorkerQueue) EnqueueDigest(userID int64) error {
	user, err := q.userRepo.Get(context.Background(), userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %d not found", userID)
	}
	return q.digestPool.Submit(&worker.DigestJob{
		Stats:    q.stats,
		Notifier: q.notifier,
		User:     *user,
	})
}
