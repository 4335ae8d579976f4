package repertoire

import (
	"fmt"

	"github.com/sousa16/chesslab/internal/models"
	"github.com/sousa16/chesslab/internal/rules"
)

// MoveError names the first ply of a line that could not be played.
type MoveError struct {
	Ply  int // 1-based
	Move string
	Err  error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("ply %d (%s): %v", e.Ply, e.Move, e.Err)
}

func (e *MoveError) Unwrap() error { return e.Err }

// Replay plays moves from startFEN (the standard initial position when empty)
// and returns every ply with its canonical position before the move. Plies
// made by the side to move equal to color are marked as owner moves.
// Nothing is returned unless the whole line is legal.
func Replay(engine rules.Engine, color models.Color, startFEN string, moves []string) ([]models.Ply, error) {
	fen := engine.Start()
	if startFEN != "" {
		var err error
		if fen, err = engine.Canonical(startFEN); err != nil {
			return nil, &MoveError{Ply: 0, Move: startFEN, Err: err}
		}
	}
	if len(moves) == 0 {
		return nil, &MoveError{Ply: 1, Err: fmt.Errorf("line has no moves")}
	}

	plies := make([]models.Ply, 0, len(moves))
	for i, text := range moves {
		mv, err := engine.Resolve(fen, text)
		if err != nil {
			return nil, &MoveError{Ply: i + 1, Move: text, Err: err}
		}
		board, err := engine.Decode(fen)
		if err != nil {
			return nil, &MoveError{Ply: i + 1, Move: text, Err: err}
		}
		next, err := engine.Apply(fen, mv.UCI)
		if err != nil {
			return nil, &MoveError{Ply: i + 1, Move: text, Err: err}
		}
		plies = append(plies, models.Ply{
			FEN:      fen,
			Move:     mv.UCI,
			SAN:      mv.SAN,
			UserMove: board.SideToMove == color,
		})
		fen = next
	}
	return plies, nil
}
