// Package pgn reads opening lines out of PGN text. Variations are expanded
// into separate lines so that a whole annotated repertoire file can be
// saved move by move.
package pgn

import (
	"fmt"
	"strings"

	"github.com/corentings/chess/v2"
)

// Game is one PGN game with its variations flattened into lines.
type Game struct {
	Number   int // 1-based position in the file
	Event    string
	StartFEN string // "" for the standard start
	// Lines holds the mainline first, then one entry per variation, in SAN.
	// Every line starts from the game's first move.
	Lines [][]string
	// Err is set when the game's movetext could not be read. chess/v2 checks
	// legality while parsing, so an illegal move lands here too.
	Err error
}

// Parse splits text into games and expands each one. A game that fails to
// parse is returned with Err set so the rest of the file still imports.
func Parse(text string) []Game {
	scanner := chess.NewScanner(strings.NewReader(text))

	var games []Game
	for n := 1; scanner.HasNext(); n++ {
		scanned, err := scanner.ScanGame()
		if err != nil {
			games = append(games, Game{Number: n, Err: err})
			break
		}
		games = append(games, parseGame(n, scanned))
	}
	return games
}

func parseGame(n int, scanned *chess.GameScanned) Game {
	out := Game{Number: n}

	tokens, err := chess.TokenizeGame(scanned)
	if err != nil {
		out.Err = fmt.Errorf("game %d: %w", n, err)
		return out
	}
	game, err := chess.NewParser(tokens).Parse()
	if err != nil {
		out.Err = fmt.Errorf("game %d: %w", n, err)
		return out
	}

	out.Event = game.GetTagPair("Event")
	out.StartFEN = game.GetTagPair("FEN")
	out.Lines = Lines(game)
	return out
}

// Lines expands game into its mainline followed by every variation.
func Lines(game *chess.Game) [][]string {
	var out [][]string
	for _, branch := range game.Split() {
		moves := branch.Moves()
		if len(moves) == 0 {
			continue
		}
		// Positions starts with the root, so positions[i] is the board
		// moves[i] was played from.
		positions := branch.Positions()
		line := make([]string, len(moves))
		for i, m := range moves {
			if i < len(positions) && positions[i] != nil {
				line[i] = chess.AlgebraicNotation{}.Encode(positions[i], m)
			} else {
				line[i] = m.String()
			}
		}
		out = append(out, line)
	}
	return out
}
