package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sousa16/chesslab/internal/logger"
	"github.com/sousa16/chesslab/internal/srs"
)

type Config struct {
	Addr     string
	DBPath   string
	LogLevel string

	LearningSteps          []time.Duration
	RelearningSteps        []time.Duration
	GraduatingIntervalDays int
	EasyIntervalDays       int
	MaxIntervalDays        int

	ReminderSchedule    string // cron spec, empty disables reminders
	ReminderWorkerCount int
	ReminderQueueSize   int

	PracticeBatchSize int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	sched := srs.DefaultConfig()
	return Config{
		Addr:                   envOr("ADDR", ":8080"),
		DBPath:                 envOr("DB_PATH", "file:chesslab.db"),
		LogLevel:               envOr("LOG_LEVEL", "INFO"),
		LearningSteps:          envDurationsOr("LEARNING_STEPS", sched.LearningSteps),
		RelearningSteps:        envDurationsOr("RELEARNING_STEPS", sched.RelearningSteps),
		GraduatingIntervalDays: envIntOr("GRADUATING_INTERVAL_DAYS", sched.GraduatingInterval),
		EasyIntervalDays:       envIntOr("EASY_INTERVAL_DAYS", sched.EasyInterval),
		MaxIntervalDays:        envIntOr("MAX_INTERVAL_DAYS", sched.MaximumIntervalDays),
		ReminderSchedule:       os.Getenv("REMINDER_SCHEDULE"),
		ReminderWorkerCount:    envIntOr("REMINDER_WORKER_COUNT", 2),
		ReminderQueueSize:      envIntOr("REMINDER_QUEUE_SIZE", 64),
		PracticeBatchSize:      envIntOr("PRACTICE_BATCH_SIZE", 20),
	}
}

// SchedulerConfig builds the spaced-repetition config from the default ease
// constants and the configured ladders and intervals.
func (c Config) SchedulerConfig() srs.Config {
	sched := srs.DefaultConfig()
	if len(c.LearningSteps) > 0 {
		sched.LearningSteps = c.LearningSteps
	}
	if len(c.RelearningSteps) > 0 {
		sched.RelearningSteps = c.RelearningSteps
	}
	if c.GraduatingIntervalDays > 0 {
		sched.GraduatingInterval = c.GraduatingIntervalDays
	}
	if c.EasyIntervalDays > 0 {
		sched.EasyInterval = c.EasyIntervalDays
	}
	if c.MaxIntervalDays > 0 {
		sched.MaximumIntervalDays = c.MaxIntervalDays
	}
	return sched
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []string

	if c.Addr == "" {
		errs = append(errs, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		errs = append(errs, "DB_PATH cannot be empty")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL: %v", err))
	}
	if len(c.LearningSteps) == 0 {
		errs = append(errs, "LEARNING_STEPS cannot be empty")
	}
	if len(c.RelearningSteps) == 0 {
		errs = append(errs, "RELEARNING_STEPS cannot be empty")
	}
	if c.GraduatingIntervalDays < 1 {
		errs = append(errs, fmt.Sprintf("GRADUATING_INTERVAL_DAYS must be at least 1 (got %d)", c.GraduatingIntervalDays))
	}
	if c.EasyIntervalDays < c.GraduatingIntervalDays {
		errs = append(errs, fmt.Sprintf("EASY_INTERVAL_DAYS must be at least GRADUATING_INTERVAL_DAYS (got %d)", c.EasyIntervalDays))
	}
	if c.MaxIntervalDays < c.EasyIntervalDays {
		errs = append(errs, fmt.Sprintf("MAX_INTERVAL_DAYS must be at least EASY_INTERVAL_DAYS (got %d)", c.MaxIntervalDays))
	}
	if c.ReminderSchedule != "" {
		if _, err := cronParser.Parse(c.ReminderSchedule); err != nil {
			errs = append(errs, fmt.Sprintf("REMINDER_SCHEDULE is not a valid cron spec: %v", err))
		}
	}
	if c.ReminderWorkerCount < 1 {
		errs = append(errs, fmt.Sprintf("REMINDER_WORKER_COUNT must be at least 1 (got %d)", c.ReminderWorkerCount))
	}
	if c.ReminderQueueSize < 1 {
		errs = append(errs, fmt.Sprintf("REMINDER_QUEUE_SIZE must be at least 1 (got %d)", c.ReminderQueueSize))
	}
	if c.PracticeBatchSize < 1 || c.PracticeBatchSize > 500 {
		errs = append(errs, fmt.Sprintf("PRACTICE_BATCH_SIZE must be between 1 and 500 (got %d)", c.PracticeBatchSize))
	}

	if len(errs) == 0 {
		if err := c.SchedulerConfig().Validate(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

// cronParser accepts standard five-field specs plus descriptors like @daily.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// CronParser is shared with the reminder scheduler so validation and
// scheduling agree.
func CronParser() cron.Parser { return cronParser }

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

// envDurationsOr parses a comma-separated list such as "1m,10m".
func envDurationsOr(key string, def []time.Duration) []time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	out, err := ParseDurations(v)
	if err != nil {
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
		return def
	}
	return out
}

// ParseDurations parses a comma-separated duration list.
func ParseDurations(s string) ([]time.Duration, error) {
	var out []time.Duration
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := time.ParseDuration(part)
		if err != nil {
			return nil, err
		}
		if d <= 0 {
			return nil, fmt.Errorf("duration %s must be positive", part)
		}
		out = append(out, d)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no durations in %q", s)
	}
	return out, nil
}
