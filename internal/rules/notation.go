package rules

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/sousa16/chesslab/internal/models"
)

var sanNoise = strings.NewReplacer("+", "", "#", "", "!", "", "?", "", "e.p.", "")

// normalizeSAN strips check marks, annotations and move numbers so user input
// compares equal to the library's SAN.
func normalizeSAN(s string) string {
	s = strings.TrimSpace(s)
	s = stripMoveNumber(s)
	s = sanNoise.Replace(s)
	s = strings.ReplaceAll(s, "0-0-0", "O-O-O")
	s = strings.ReplaceAll(s, "0-0", "O-O")
	return s
}

func stripMoveNumber(s string) string {
	i := 0
	for i < len(s) && unicode.IsDigit(rune(s[i])) {
		i++
	}
	if i == 0 || i == len(s) || s[i] != '.' {
		return s
	}
	for i < len(s) && s[i] == '.' {
		i++
	}
	return strings.TrimSpace(s[i:])
}

// SplitMoves turns free text such as "1. e4 c5 2.Nf3" into move tokens,
// dropping move numbers and result markers.
func SplitMoves(text string) []string {
	var out []string
	for _, tok := range strings.Fields(text) {
		tok = stripMoveNumber(tok)
		switch tok {
		case "", "1-0", "0-1", "1/2-1/2", "*":
			continue
		}
		out = append(out, tok)
	}
	return out
}

// FormatLine renders plies with standard numbering. Each ply is paired with
// the position it was played from so a line may start with black to move.
func FormatLine(plies []LinePly) string {
	var sb strings.Builder
	for i, p := range plies {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch {
		case p.Board.SideToMove == models.White:
			sb.WriteString(strconv.Itoa(p.Board.FullMove))
			sb.WriteString(". ")
		case i == 0:
			sb.WriteString(strconv.Itoa(p.Board.FullMove))
			sb.WriteString("... ")
		}
		sb.WriteString(p.SAN)
	}
	return sb.String()
}

// LinePly is a SAN move and the board it was played on.
type LinePly struct {
	SAN   string
	Board Board
}
