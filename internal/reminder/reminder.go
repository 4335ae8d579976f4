// Package reminder fires the due-review digest on a cron schedule.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sousa16/chesslab/internal/jobs"
	"github.com/sousa16/chesslab/internal/logger"
	"github.com/sousa16/chesslab/internal/models"
	"github.com/sousa16/chesslab/internal/repository"
)

// Scheduler enqueues one digest job per opted-in user each time the schedule
// fires.
type Scheduler struct {
	cron     *cron.Cron
	schedule cron.Schedule
	spec     string
	users    repository.UserRepository
	queue    jobs.JobQueue
	log      *logger.Logger
}

// NewScheduler parses spec with parser and prepares, but does not start, the
// cron runner.
func NewScheduler(spec string, parser cron.Parser, users repository.UserRepository, queue jobs.JobQueue) (*Scheduler, error) {
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("reminder schedule %q: %w", spec, err)
	}
	s := &Scheduler{
		cron:     cron.New(cron.WithParser(parser), cron.WithLocation(time.UTC)),
		schedule: schedule,
		spec:     spec,
		users:    users,
		queue:    queue,
		log:      logger.Default().WithPrefix("reminder"),
	}
	s.cron.Schedule(schedule, cron.FuncJob(func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			s.log.Error("digest run failed: %v", err)
		}
	}))
	return s, nil
}

// Start runs the schedule in its own goroutine.
func (s *Scheduler) Start() {
	s.log.Info("reminders scheduled: spec=%q next=%s", s.spec, s.Next(time.Now()).Format(time.RFC3339))
	s.cron.Start()
}

// Stop halts the schedule and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("reminders stopped")
}

// Next returns the first fire time after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// RunOnce enqueues a digest for every user with reminders enabled and returns
// how many were queued. Users whose job cannot be queued are logged and
// skipped.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	users, err := s.users.ListWithReminders(ctx)
	if err != nil {
		return 0, err
	}
	queued := 0
	for _, u := range users {
		if err := s.queue.EnqueueDigest(u.ID); err != nil {
			s.log.WithField("user_id", u.ID).Warn("failed to enqueue digest: %v", err)
			continue
		}
		queued++
	}
	s.log.Debug("queued %d of %d digests", queued, len(users))
	return queued, nil
}

// LogNotifier writes digests to the log. It is the default when no delivery
// channel is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, user models.User, stats models.Stats) error {
	logger.FromContext(ctx).WithPrefix("notifier").WithFields(map[string]any{
		"user_id": user.ID,
		"white":   stats.ColorStats[models.White].Total,
		"black":   stats.ColorStats[models.Black].Total,
	}).Info("%s has %d moves due for review", user.Username, stats.DueCount)
	return nil
}
