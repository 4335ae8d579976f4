// Package stats folds a user's entries into dashboard counters.
package stats

import (
	"fmt"
	"time"

	"github.com/sousa16/chesslab/internal/models"
	"github.com/sousa16/chesslab/internal/rules"
)

// Decoder reads the FEN fields that decide whether an entry is a first move.
type Decoder interface {
	Decode(fen string) (rules.Board, error)
}

// Aggregate counts the owner entries of every repertoire in entries.
// Opponent plies are never trained and the very first move of a repertoire
// is not counted either, so a fresh repertoire with one line of three owner
// moves reports two positions.
func Aggregate(entries []models.Entry, now time.Time, dec Decoder) (models.Stats, error) {
	out := models.Stats{
		ColorStats: map[models.Color]models.ColorStat{
			models.White: {},
			models.Black: {},
		},
	}
	for _, e := range entries {
		if !e.UserMove {
			continue
		}
		board, err := dec.Decode(e.FEN)
		if err != nil {
			return models.Stats{}, fmt.Errorf("entry %d: %w", e.ID, err)
		}
		if FirstMove(e.Color, board) {
			continue
		}
		cs := out.ColorStats[e.Color]
		cs.Total++
		if e.Card.Repetitions > 0 {
			cs.Learned++
		}
		out.ColorStats[e.Color] = cs
		out.TotalPositions++
		if e.Card.IsDue(now) {
			out.DueCount++
		}
	}
	return out, nil
}

// FirstMove reports whether board is the repertoire's opening decision:
// its own color to move on move one.
func FirstMove(color models.Color, board rules.Board) bool {
	return board.FullMove == 1 && board.SideToMove == color
}
