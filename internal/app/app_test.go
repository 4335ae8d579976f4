package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sousa16/chesslab/internal/app"
	"github.com/sousa16/chesslab/internal/config"
	"github.com/sousa16/chesslab/internal/models"
	"github.com/sousa16/chesslab/internal/testutil"
)

type recordingNotifier struct {
	got chan models.Stats
}

func (n *recordingNotifier) Notify(_ context.Context, _ models.User, stats models.Stats) error {
	n.got <- stats
	return nil
}

func testConfig() config.Config {
	cfg := config.Load()
	cfg.DBPath = ":memory:"
	cfg.ReminderSchedule = "@daily"
	cfg.ReminderWorkerCount = 1
	cfg.ReminderQueueSize = 4
	return cfg
}

func TestApp_RemindersDeliverDigest(t *testing.T) {
	ctx := context.Background()
	a, err := app.New(testConfig())
	require.NoError(t, err)
	defer testutil.MustClose(t, a)

	user, err := a.UserService.CreateUser(ctx, "alice")
	require.NoError(t, err)
	_, err = a.UserService.SetReminders(ctx, user.ID, true)
	require.NoError(t, err)
	_, err = a.RepertoireService.CreateRepertoire(ctx, user.ID, models.White)
	require.NoError(t, err)
	_, err = a.RepertoireService.InsertLine(ctx, user.ID, models.White, []string{"e4", "c5", "Nf3"}, "")
	require.NoError(t, err)

	notifier := &recordingNotifier{got: make(chan models.Stats, 1)}
	pool, sched, err := a.Reminders(notifier)
	require.NoError(t, err)
	pool.Start(ctx)
	defer pool.Stop()

	queued, err := sched.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, queued)

	select {
	case stats := <-notifier.got:
		assert.Equal(t, 1, stats.DueCount)
	case <-time.After(5 * time.Second):
		t.Fatal("digest was not delivered")
	}
}

func TestApp_RejectsBadSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.ReminderSchedule = "every tuesday"
	a, err := app.New(cfg)
	require.NoError(t, err)
	defer testutil.MustClose(t, a)

	_, _, err = a.Reminders(&recordingNotifier{})
	assert.Error(t, err)
}
