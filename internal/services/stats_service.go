package services

import (
	"context"
	"time"

	"github.com/sousa16/chesslab/internal/errors"
	"github.com/sousa16/chesslab/internal/logger"
	"github.com/sousa16/chesslab/internal/models"
	"github.com/sousa16/chesslab/internal/repository"
	"github.com/sousa16/chesslab/internal/stats"
)

// StatsService handles dashboard statistics
type StatsService interface {
	GetStats(ctx context.Context, userID int64) (*models.Stats, error)
}

type statsService struct {
	entries repository.EntryRepository
	decoder stats.Decoder
	now     func() time.Time
}

// NewStatsService creates a new StatsService. A nil now uses time.Now.
func NewStatsService(entries repository.EntryRepository, decoder stats.Decoder, now func() time.Time) StatsService {
	if now == nil {
		now = time.Now
	}
	return &statsService{entries: entries, decoder: decoder, now: now}
}

func (s *statsService) GetStats(ctx context.Context, userID int64) (*models.Stats, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting stats: user_id=%d", userID)

	entries, err := s.entries.ListForUser(ctx, userID)
	if err != nil {
		log.Error("failed to list entries: %v", err)
		return nil, errors.NewInternalError(err)
	}

	out, err := stats.Aggregate(entries, s.now(), s.decoder)
	if err != nil {
		log.Error("failed to aggregate stats: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &out, nil
}
