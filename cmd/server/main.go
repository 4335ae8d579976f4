package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sousa16/chesslab/internal/api"
	"github.com/sousa16/chesslab/internal/app"
	"github.com/sousa16/chesslab/internal/config"
	"github.com/sousa16/chesslab/internal/logger"
	"github.com/sousa16/chesslab/internal/reminder"
	"github.com/sousa16/chesslab/internal/worker"
)

func main() {
	cfg := config.Load()

	level, _ := logger.ParseLevel(cfg.LogLevel)
	log := logger.New(
		logger.WithLevel(level),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("chesslab server starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("learning_steps=%v relearning_steps=%v", cfg.LearningSteps, cfg.RelearningSteps)
	log.Debug("reminder_schedule=%q", cfg.ReminderSchedule)
	log.Debug("reminder_worker_count=%d", cfg.ReminderWorkerCount)
	log.Debug("reminder_queue_size=%d", cfg.ReminderQueueSize)

	a, err := app.New(cfg)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		a.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var digestPool *worker.Pool
	var reminders *reminder.Scheduler
	if cfg.ReminderSchedule != "" {
		digestPool, reminders, err = a.Reminders(reminder.LogNotifier{})
		if err != nil {
			log.Error("failed to set up reminders: %v", err)
			os.Exit(1)
		}
		digestPool.Start(ctx)
		reminders.Start()
	} else {
		log.Info("reminders disabled")
	}

	srv := &api.Server{
		Users:             a.UserService,
		Repertoires:       a.RepertoireService,
		Reviews:           a.ReviewService,
		Stats:             a.StatsService,
		Imports:           a.ImportService,
		DB:                a.DB,
		PracticeBatchSize: cfg.PracticeBatchSize,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if reminders != nil {
		log.Debug("stopping reminder schedule")
		reminders.Stop()
	}

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	if digestPool != nil {
		log.Debug("stopping digest pool")
		digestPool.Stop()
	}

	log.Info("===========================================")
	log.Info("chesslab server stopped")
	log.Info("===========================================")
}
