// Package app wires configuration, storage and services together for the
// server and the CLI.
package app

import (
	"github.com/sousa16/chesslab/internal/config"
	"github.com/sousa16/chesslab/internal/db"
	"github.com/sousa16/chesslab/internal/jobs"
	"github.com/sousa16/chesslab/internal/reminder"
	"github.com/sousa16/chesslab/internal/repository"
	"github.com/sousa16/chesslab/internal/repository/sqlite"
	"github.com/sousa16/chesslab/internal/rules"
	"github.com/sousa16/chesslab/internal/services"
	"github.com/sousa16/chesslab/internal/worker"
)

type App struct {
	Config config.Config
	DB     *db.DB
	Engine rules.Engine

	Users       repository.UserRepository
	Repertoires repository.RepertoireRepository
	Entries     repository.EntryRepository
	Positions   repository.PositionRepository

	UserService       services.UserService
	RepertoireService services.RepertoireService
	ReviewService     services.ReviewService
	StatsService      services.StatsService
	ImportService     services.ImportService
}

// New opens the database at cfg.DBPath and builds every service on top of it.
func New(cfg config.Config) (*App, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	engine := rules.New()
	sched := cfg.SchedulerConfig()
	a := &App{
		Config:      cfg,
		DB:          database,
		Engine:      engine,
		Users:       sqlite.NewUserRepository(database.DB),
		Repertoires: sqlite.NewRepertoireRepository(database.DB),
		Entries:     sqlite.NewEntryRepository(database.DB),
		Positions:   sqlite.NewPositionRepository(database.DB),
	}
	a.UserService = services.NewUserService(a.Users)
	a.RepertoireService = services.NewRepertoireService(a.Users, a.Repertoires, a.Entries, engine, sched, nil)
	a.ReviewService = services.NewReviewService(a.Entries, engine, sched, nil)
	a.StatsService = services.NewStatsService(a.Entries, engine, nil)
	a.ImportService = services.NewImportService(a.RepertoireService)
	return a, nil
}

// Reminders builds the digest pool and the cron scheduler feeding it. Neither
// is started.
func (a *App) Reminders(notifier worker.Notifier) (*worker.Pool, *reminder.Scheduler, error) {
	pool := worker.NewPool(a.Config.ReminderWorkerCount, a.Config.ReminderQueueSize)
	queue := jobs.NewWorkerQueue(pool, a.Users, a.StatsService, notifier)
	sched, err := reminder.NewScheduler(a.Config.ReminderSchedule, config.CronParser(), a.Users, queue)
	if err != nil {
		return nil, nil, err
	}
	return pool, sched, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}
