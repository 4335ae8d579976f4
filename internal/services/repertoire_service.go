package services

import (
	"context"
	stderrors "errors"
	"sort"
	"time"

	"github.com/sousa16/chesslab/internal/errors"
	"github.com/sousa16/chesslab/internal/logger"
	"github.com/sousa16/chesslab/internal/models"
	"github.com/sousa16/chesslab/internal/repertoire"
	"github.com/sousa16/chesslab/internal/repository"
	"github.com/sousa16/chesslab/internal/rules"
	"github.com/sousa16/chesslab/internal/srs"
	"github.com/sousa16/chesslab/internal/stats"
)

// InsertResult reports what InsertLine stored.
type InsertResult struct {
	Created int          `json:"created"`
	Plies   []models.Ply `json:"-"`
	Line    string       `json:"line"`
}

// DeleteResult reports what DeleteEntry removed.
type DeleteResult struct {
	Deleted          int `json:"deleted"`
	PositionsRemoved int `json:"positions_removed"`
}

// PracticeCard is one due owner move, ready to be quizzed.
type PracticeCard struct {
	EntryID     int64            `json:"entry_id"`
	FEN         string           `json:"fen"`
	Context     string           `json:"context"`
	ExpectedSAN string           `json:"expected_san"`
	ExpectedUCI string           `json:"expected_uci"`
	Version     int64            `json:"version"`
	Card        models.CardState `json:"card"`
}

// RepertoireService handles repertoire building, browsing and pruning
type RepertoireService interface {
	CreateRepertoire(ctx context.Context, userID int64, color models.Color) (*models.Repertoire, error)
	ListRepertoires(ctx context.Context, userID int64) ([]models.Repertoire, error)
	InsertLine(ctx context.Context, userID int64, color models.Color, moves []string, startFEN string) (*InsertResult, error)
	GetTree(ctx context.Context, userID int64, color models.Color) (*models.Tree, error)
	DeleteEntry(ctx context.Context, userID, entryID int64) (*DeleteResult, error)
	// PracticeQueue returns due moves, oldest first. A positive fromEntryID
	// limits the queue to that entry and the lines below it.
	PracticeQueue(ctx context.Context, userID int64, color models.Color, fromEntryID int64, limit int) ([]PracticeCard, error)
}

type repertoireService struct {
	users       repository.UserRepository
	repertoires repository.RepertoireRepository
	entries     repository.EntryRepository
	engine      rules.Engine
	sched       srs.Config
	graphs      *graphCache
	now         func() time.Time
}

// NewRepertoireService creates a new RepertoireService. A nil now uses
// time.Now.
func NewRepertoireService(
	users repository.UserRepository,
	repertoires repository.RepertoireRepository,
	entries repository.EntryRepository,
	engine rules.Engine,
	sched srs.Config,
	now func() time.Time,
) RepertoireService {
	if now == nil {
		now = time.Now
	}
	return &repertoireService{
		users:       users,
		repertoires: repertoires,
		entries:     entries,
		engine:      engine,
		sched:       sched,
		graphs:      newGraphCache(engine),
		now:         now,
	}
}

func (s *repertoireService) CreateRepertoire(ctx context.Context, userID int64, color models.Color) (*models.Repertoire, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating repertoire: user_id=%d, color=%s", userID, color)

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", userID)
	}

	rep, err := s.repertoires.Create(ctx, userID, color)
	if err != nil {
		log.Error("failed to create repertoire: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return rep, nil
}

func (s *repertoireService) ListRepertoires(ctx context.Context, userID int64) ([]models.Repertoire, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing repertoires: user_id=%d", userID)

	reps, err := s.repertoires.ListForUser(ctx, userID)
	if err != nil {
		log.Error("failed to list repertoires: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return reps, nil
}

func (s *repertoireService) repertoire(ctx context.Context, userID int64, color models.Color) (*models.Repertoire, error) {
	rep, err := s.repertoires.Get(ctx, userID, color)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get repertoire: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if rep == nil {
		return nil, errors.NewRepertoireNotFoundError(userID, string(color))
	}
	return rep, nil
}

func (s *repertoireService) InsertLine(ctx context.Context, userID int64, color models.Color, moves []string, startFEN string) (*InsertResult, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{"user_id": userID, "color": color})
	log.Debug("inserting line: moves=%d", len(moves))

	rep, err := s.repertoire(ctx, userID, color)
	if err != nil {
		return nil, err
	}

	plies, err := repertoire.Replay(s.engine, color, startFEN, moves)
	if err != nil {
		var moveErr *repertoire.MoveError
		if stderrors.As(err, &moveErr) {
			if moveErr.Ply == 0 {
				return nil, errors.NewValidationError("start_fen", moveErr.Err.Error())
			}
			return nil, errors.NewInvalidMoveSequenceError(moveErr.Ply, moveErr.Move, moveErr.Err)
		}
		return nil, errors.NewInternalError(err)
	}

	created, err := s.entries.InsertLine(ctx, rep.ID, plies, models.NewCardState(s.sched.StartingEase, s.now()))
	if err != nil {
		var conflict *repository.EntryConflictError
		if stderrors.As(err, &conflict) {
			log.Debug("line conflicts with stored move at %s", conflict.FEN)
			return nil, errors.NewEntryConflictError(conflict.FEN, s.san(conflict.FEN, conflict.Existing), s.san(conflict.FEN, conflict.Attempted))
		}
		log.Error("failed to insert line: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if created > 0 {
		s.graphs.invalidate(rep.ID)
	}

	log.Info("line saved: created=%d plies=%d", created, len(plies))
	return &InsertResult{Created: created, Plies: plies, Line: s.formatPlies(plies)}, nil
}

func (s *repertoireService) san(fen, uci string) string {
	if san, err := s.engine.SAN(fen, uci); err == nil {
		return san
	}
	return uci
}

func (s *repertoireService) formatPlies(plies []models.Ply) string {
	line := make([]rules.LinePly, 0, len(plies))
	for _, p := range plies {
		board, err := s.engine.Decode(p.FEN)
		if err != nil {
			return ""
		}
		line = append(line, rules.LinePly{SAN: p.SAN, Board: board})
	}
	return rules.FormatLine(line)
}

func (s *repertoireService) graph(ctx context.Context, rep *models.Repertoire) (*repertoire.Graph, error) {
	log := logger.FromContext(ctx)

	entries, err := s.entries.ListForRepertoire(ctx, rep.ID)
	if err != nil {
		log.Error("failed to list entries: %v", err)
		return nil, errors.NewInternalError(err)
	}
	g, err := s.graphs.get(rep, entries)
	if err != nil {
		log.Error("failed to derive repertoire graph: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return g, nil
}

func (s *repertoireService) GetTree(ctx context.Context, userID int64, color models.Color) (*models.Tree, error) {
	log := logger.FromContext(ctx)
	log.Debug("building tree: user_id=%d, color=%s", userID, color)

	rep, err := s.repertoire(ctx, userID, color)
	if err != nil {
		return nil, err
	}
	g, err := s.graph(ctx, rep)
	if err != nil {
		return nil, err
	}
	return g.BuildTree(rep.ID, color, s.now()), nil
}

func (s *repertoireService) DeleteEntry(ctx context.Context, userID, entryID int64) (*DeleteResult, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{"user_id": userID, "entry_id": entryID})
	log.Debug("deleting entry")

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

	rep, err := s.repertoires.GetByID(ctx, entry.RepertoireID)
	if err != nil {
		log.Error("failed to get repertoire: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if rep == nil {
		return nil, errors.NewEntryNotFoundError(entryID)
	}
	g, err := s.graph(ctx, rep)
	if err != nil {
		return nil, err
	}

	ids := g.DeletionSet(entryID)
	res, err := s.entries.DeleteBatch(ctx, rep.ID, ids)
	if err != nil {
		log.Error("failed to delete entries: %v", err)
		return nil, errors.NewInternalError(err)
	}
	s.graphs.invalidate(rep.ID)

	log.Info("deleted %d entries and %d positions", res.Entries, res.Positions)
	return &DeleteResult{Deleted: res.Entries, PositionsRemoved: res.Positions}, nil
}

func (s *repertoireService) PracticeQueue(ctx context.Context, userID int64, color models.Color, fromEntryID int64, limit int) ([]PracticeCard, error) {
	log := logger.FromContext(ctx)
	log.Debug("building practice queue: user_id=%d, color=%s, from=%d, limit=%d", userID, color, fromEntryID, limit)

	rep, err := s.repertoire(ctx, userID, color)
	if err != nil {
		return nil, err
	}
	g, err := s.graph(ctx, rep)
	if err != nil {
		return nil, err
	}

	var scope map[int64]bool
	if fromEntryID > 0 {
		if _, ok := g.Entry(fromEntryID); !ok {
			return nil, errors.NewEntryNotFoundError(fromEntryID)
		}
		ids := g.Descendants(fromEntryID)
		if ids == nil {
			return nil, errors.NewValidationError("from", "practice must start from one of your own moves")
		}
		scope = make(map[int64]bool, len(ids))
		for _, id := range ids {
			scope[id] = true
		}
	}

	now := s.now()
	seen := make(map[int64]bool)
	var cards []PracticeCard
	g.BuildTree(rep.ID, color, now).Walk(func(n *models.TreeNode, _ int) {
		if n.Synthetic || !n.Due || seen[n.EntryID] {
			return
		}
		if scope != nil && !scope[n.EntryID] {
			return
		}
		seen[n.EntryID] = true
		board, err := s.engine.Decode(n.FEN)
		if err != nil || stats.FirstMove(color, board) {
			return
		}
		e, _ := g.Entry(n.EntryID)
		cards = append(cards, PracticeCard{
			EntryID:     n.EntryID,
			FEN:         n.FEN,
			Context:     n.Context,
			ExpectedSAN: n.Move,
			ExpectedUCI: n.MoveUCI,
			Version:     e.Version,
			Card:        *n.Card,
		})
	})

	sort.SliceStable(cards, func(i, j int) bool {
		a, b := cards[i].Card.NextReviewDate, cards[j].Card.NextReviewDate
		if !a.Equal(b) {
			return a.Before(b)
		}
		return cards[i].EntryID < cards[j].EntryID
	})
	if limit > 0 && len(cards) > limit {
		cards = cards[:limit]
	}
	log.Debug("practice queue has %d cards", len(cards))
	return cards, nil
}
