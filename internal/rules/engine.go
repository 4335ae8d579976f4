// Package rules adapts the chess rules library to the few operations the
// repertoire code needs: canonical FEN encoding, move resolution, move
// application and legal-successor enumeration.
package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/corentings/chess/v2"
	"github.com/sousa16/chesslab/internal/models"
)

// Move is a legal move in both notations.
type Move struct {
	UCI string `json:"uci"`
	SAN string `json:"san"`
}

// Successor is a legal move together with the canonical position it leads to.
type Successor struct {
	Move Move
	FEN  string
}

// Board holds the FEN fields the repertoire logic reads.
type Board struct {
	SideToMove models.Color
	FullMove   int
}

// Engine is the rules capability the graph engine and stats depend on.
type Engine interface {
	Start() string
	Canonical(fen string) (string, error)
	Resolve(fen, move string) (Move, error)
	Apply(fen, uci string) (string, error)
	SAN(fen, uci string) (string, error)
	Successors(fen string) ([]Successor, error)
	Decode(fen string) (Board, error)
}

// Chess implements Engine on top of github.com/corentings/chess/v2.
type Chess struct{}

var _ Engine = Chess{}

// New returns the library-backed engine.
func New() Chess { return Chess{} }

// Start returns the canonical standard starting position.
func (Chess) Start() string {
	return canonical(chess.NewGame().Position())
}

// Canonical re-encodes fen so that equal positions compare equal as strings:
// the halfmove clock is zeroed and an en passant square is kept only when an
// en passant capture is actually legal.
func (Chess) Canonical(fen string) (string, error) {
	pos, err := parse(fen)
	if err != nil {
		return "", err
	}
	return canonical(pos), nil
}

// Resolve finds the legal move described by text, which may be SAN ("Nf3",
// "exd5", "O-O", "e8=Q+") or UCI ("g1f3"). Ambiguous or under-specified SAN
// matches nothing.
func (Chess) Resolve(fen, text string) (Move, error) {
	pos, err := parse(fen)
	if err != nil {
		return Move{}, err
	}
	m, _, err := resolve(pos, text)
	return m, err
}

// Apply plays uci on fen and returns the canonical resulting position.
func (Chess) Apply(fen, uci string) (string, error) {
	pos, err := parse(fen)
	if err != nil {
		return "", err
	}
	_, mv, err := resolve(pos, uci)
	if err != nil {
		return "", err
	}
	return canonical(pos.Update(mv)), nil
}

// SAN renders a legal UCI move of fen in standard algebraic notation.
func (Chess) SAN(fen, uci string) (string, error) {
	pos, err := parse(fen)
	if err != nil {
		return "", err
	}
	m, _, err := resolve(pos, uci)
	return m.SAN, err
}

// Successors lists every legal move of fen with its resulting position.
func (Chess) Successors(fen string) ([]Successor, error) {
	pos, err := parse(fen)
	if err != nil {
		return nil, err
	}
	var out []Successor
	for _, m := range pos.ValidMoves() {
		mv := movePtr(m)
		out = append(out, Successor{
			Move: Move{
				UCI: chess.UCINotation{}.Encode(pos, mv),
				SAN: chess.AlgebraicNotation{}.Encode(pos, mv),
			},
			FEN: canonical(pos.Update(mv)),
		})
	}
	return out, nil
}

// Decode reads side to move and the fullmove counter.
func (Chess) Decode(fen string) (Board, error) {
	return DecodeFEN(fen)
}

// DecodeFEN reads side to move and the fullmove counter without building a
// position.
func DecodeFEN(fen string) (Board, error) {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return Board{}, fmt.Errorf("fen %q: want 6 fields, got %d", fen, len(fields))
	}
	color, err := models.ParseColor(fields[1])
	if err != nil {
		return Board{}, fmt.Errorf("fen %q: %w", fen, err)
	}
	full, err := strconv.Atoi(fields[5])
	if err != nil || full < 1 {
		return Board{}, fmt.Errorf("fen %q: invalid fullmove number %q", fen, fields[5])
	}
	return Board{SideToMove: color, FullMove: full}, nil
}

func parse(fen string) (*chess.Position, error) {
	opt, err := chess.FEN(strings.TrimSpace(fen))
	if err != nil {
		return nil, fmt.Errorf("invalid fen %q: %w", fen, err)
	}
	return chess.NewGame(opt).Position(), nil
}

func canonical(pos *chess.Position) string {
	fields := strings.Fields(pos.String())
	if len(fields) != 6 {
		return pos.String()
	}
	if fields[3] != "-" && !enPassantLegal(pos) {
		fields[3] = "-"
	}
	fields[4] = "0"
	return strings.Join(fields, " ")
}

func enPassantLegal(pos *chess.Position) bool {
	for _, m := range pos.ValidMoves() {
		if movePtr(m).HasTag(chess.EnPassant) {
			return true
		}
	}
	return false
}

func resolve(pos *chess.Position, text string) (Move, *chess.Move, error) {
	want := normalizeSAN(text)
	if want == "" {
		return Move{}, nil, fmt.Errorf("empty move")
	}
	for _, m := range pos.ValidMoves() {
		mv := movePtr(m)
		uci := chess.UCINotation{}.Encode(pos, mv)
		san := chess.AlgebraicNotation{}.Encode(pos, mv)
		if normalizeSAN(san) == want || strings.EqualFold(uci, strings.TrimSpace(text)) {
			return Move{UCI: uci, SAN: san}, mv, nil
		}
	}
	return Move{}, nil, fmt.Errorf("no legal move matches %q", text)
}

// movePtr accepts both shapes ValidMoves has returned across chess/v2
// releases.
func movePtr[M chess.Move | *chess.Move](m M) *chess.Move {
	switch v := any(m).(type) {
	case *chess.Move:
		return v
	case chess.Move:
		return &v
	}
	return nil
}
