package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/sousa16/chesslab/internal/errors"
	"github.com/sousa16/chesslab/internal/logger"
	"github.com/sousa16/chesslab/internal/models"
	"github.com/sousa16/chesslab/internal/repository"
	"github.com/sousa16/chesslab/internal/rules"
	"github.com/sousa16/chesslab/internal/srs"
	"github.com/sousa16/chesslab/internal/stats"
)

// ReviewResult is the scheduler outcome plus the stored entry.
type ReviewResult struct {
	Entry        *models.Entry  `json:"entry"`
	IntervalDays int            `json:"interval_days"`
	Message      string         `json:"message"`
	Transition   srs.Transition `json:"transition"`
}

// ReviewPreview is what each response would do to a card.
type ReviewPreview struct {
	Response     string    `json:"response"`
	IntervalDays int       `json:"interval_days"`
	NextReview   time.Time `json:"next_review"`
	Message      string    `json:"message"`
}

// ReviewService applies answers to due moves
type ReviewService interface {
	// Review schedules entryID with response. version must match the stored
	// entry version or the review is rejected as a conflict.
	Review(ctx context.Context, userID, entryID int64, response string, version int64) (*ReviewResult, error)
	PreviewReview(ctx context.Context, userID, entryID int64) ([]ReviewPreview, error)
	History(ctx context.Context, userID, entryID int64, limit int) ([]models.ReviewLog, error)
}

type reviewService struct {
	entries repository.EntryRepository
	engine  rules.Engine
	sched   srs.Config
	now     func() time.Time
}

// NewReviewService creates a new ReviewService. A nil now uses time.Now.
func NewReviewService(entries repository.EntryRepository, engine rules.Engine, sched srs.Config, now func() time.Time) ReviewService {
	if now == nil {
		now = time.Now
	}
	return &reviewService{entries: entries, engine: engine, sched: sched, now: now}
}

// trainable loads entryID and checks it belongs to userID and is a move the
// user is quizzed on.
func (s *reviewService) trainable(ctx context.Context, userID, entryID int64) (*models.Entry, error) {
	log := logger.FromContext(ctx)

	entry, err := s.entries.Get(ctx, entryID)
	if err != nil {
		log.Error("failed to get entry: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if entry == nil {
		return nil, errors.NewEntryNotFoundError(entryID)
	}
	if entry.UserID != userID {
		return nil, errors.NewNotOwnerError(entryID)
	}
	if !entry.UserMove {
		return nil, errors.NewValidationError("entry_id", "opponent moves are not reviewed")
	}
	board, err := s.engine.Decode(entry.FEN)
	if err != nil {
		log.Error("stored position %q does not decode: %v", entry.FEN, err)
		return nil, errors.NewInternalError(err)
	}
	if stats.FirstMove(entry.Color, board) {
		return nil, errors.NewValidationError("entry_id", "the first move of a repertoire is not reviewed")
	}
	return entry, nil
}

func (s *reviewService) Review(ctx context.Context, userID, entryID int64, response string, version int64) (*ReviewResult, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{"user_id": userID, "entry_id": entryID})
	log.Debug("reviewing entry: response=%s version=%d", response, version)

	resp, err := srs.ParseResponse(response)
	if err != nil {
		return nil, errors.NewInvalidResponseError(response)
	}

	entry, err := s.trainable(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Version != version {
		return nil, errors.NewConflictError("entry", entryID)
	}

	now := s.now()
	res, err := srs.Schedule(entry.Card, resp, s.sched, now)
	if err != nil {
		log.Error("scheduler rejected card: %v", err)
		return nil, errors.NewInternalError(err)
	}

	review := models.ReviewLog{
		EntryID:      entryID,
		Response:     resp.String(),
		PhaseBefore:  entry.Card.Phase,
		PhaseAfter:   res.Card.Phase,
		IntervalDays: res.IntervalDays,
		EaseFactor:   res.Card.EaseFactor,
		ReviewedAt:   now,
	}
	updated, err := s.entries.UpdateCard(ctx, entryID, version, res.Card, review)
	if err != nil {
		if stderrors.Is(err, repository.ErrStaleEntry) {
			log.Warn("lost review race at version %d", version)
			return nil, errors.NewConflictError("entry", entryID)
		}
		log.Error("failed to store review: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("reviewed: %s -> %s (%s)", review.PhaseBefore, review.PhaseAfter, res.Transition)
	return &ReviewResult{
		Entry:        updated,
		IntervalDays: res.IntervalDays,
		Message:      res.Message,
		Transition:   res.Transition,
	}, nil
}

func (s *reviewService) PreviewReview(ctx context.Context, userID, entryID int64) ([]ReviewPreview, error) {
	entry, err := s.trainable(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	results, err := srs.Preview(entry.Card, s.sched, s.now())
	if err != nil {
		logger.FromContext(ctx).Error("scheduler rejected card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	out := make([]ReviewPreview, 0, len(srs.Responses))
	for _, r := range srs.Responses {
		res := results[r]
		out = append(out, ReviewPreview{
			Response:     r.String(),
			IntervalDays: res.IntervalDays,
			NextReview:   res.Card.NextReviewDate,
			Message:      res.Message,
		})
	}
	return out, nil
}

func (s *reviewService) History(ctx context.Context, userID, entryID int64, limit int) ([]models.ReviewLog, error) {
	log := logger.FromContext(ctx)

	entry, err := s.entries.Get(ctx, entryID)
	if err != nil {
		log.Error("failed to get entry: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if entry == nil {
		return nil, errors.NewEntryNotFoundError(entryID)
	}
	if entry.UserID != userID {
		return nil, errors.NewNotOwnerError(entryID)
	}

	logs, err := s.entries.ReviewHistory(ctx, entryID, limit)
	if err != nil {
		log.Error("failed to load review history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return logs, nil
}
