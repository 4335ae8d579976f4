package services

import (
	"context"
	"strings"

	"github.com/sousa16/chesslab/internal/errors"
	"github.com/sousa16/chesslab/internal/logger"
	"github.com/sousa16/chesslab/internal/models"
	"github.com/sousa16/chesslab/internal/pgn"
)

// ImportResult summarizes a PGN import.
type ImportResult struct {
	Games   int           `json:"games"`
	Lines   int           `json:"lines"`
	Created int           `json:"created"`
	Skipped []SkippedLine `json:"skipped,omitempty"`
}

// SkippedLine is a line the repertoire refused, with the reason. Line is
// empty when the whole game could not be read.
type SkippedLine struct {
	Game  int    `json:"game"`
	Line  string `json:"line,omitempty"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

// ImportService handles bulk repertoire imports
type ImportService interface {
	// ImportPGN saves every line of every game in text. Each line is its own
	// transaction; lines that conflict with the repertoire or do not replay
	// are reported and skipped.
	ImportPGN(ctx context.Context, userID int64, color models.Color, text string) (*ImportResult, error)
}

type importService struct {
	repertoires RepertoireService
}

// NewImportService creates a new ImportService
func NewImportService(repertoires RepertoireService) ImportService {
	return &importService{repertoires: repertoires}
}

func (s *importService) ImportPGN(ctx context.Context, userID int64, color models.Color, text string) (*ImportResult, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"user_id": userID,
		"color":   color,
	})

	games := pgn.Parse(text)
	lines := 0
	for _, game := range games {
		lines += len(game.Lines)
	}
	if lines == 0 {
		if len(games) > 0 && games[0].Err != nil {
			return nil, errors.NewValidationError("pgn", games[0].Err.Error())
		}
		return nil, errors.NewValidationError("pgn", "no moves found")
	}
	log.Info("importing pgn: games=%d lines=%d", len(games), lines)

	res := &ImportResult{Games: len(games)}
	for _, game := range games {
		if game.Err != nil {
			log.Debug("skipping unreadable game %d: %v", game.Number, game.Err)
			res.Skipped = append(res.Skipped, SkippedLine{
				Game:  game.Number,
				Code:  errors.ErrCodeValidation,
				Error: game.Err.Error(),
			})
			continue
		}
		for _, line := range game.Lines {
			res.Lines++
			inserted, err := s.repertoires.InsertLine(ctx, userID, color, line, game.StartFEN)
			if err == nil {
				res.Created += inserted.Created
				continue
			}
			appErr, ok := errors.As(err)
			if !ok {
				return nil, err
			}
			switch appErr.Code {
			case errors.ErrCodeEntryConflict, errors.ErrCodeInvalidMoveSequence, errors.ErrCodeValidation:
				log.Debug("skipping line %q: %s", strings.Join(line, " "), appErr.Message)
				res.Skipped = append(res.Skipped, SkippedLine{
					Game:  game.Number,
					Line:  strings.Join(line, " "),
					Code:  appErr.Code,
					Error: appErr.Message,
				})
			default:
				return nil, err
			}
		}
	}

	log.Info("pgn imported: lines=%d created=%d skipped=%d", res.Lines, res.Created, len(res.Skipped))
	return res, nil
}
