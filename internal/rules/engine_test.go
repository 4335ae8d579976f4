package rules_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sousa16/chesslab/internal/models"
	"github.com/sousa16/chesslab/internal/rules"
)

func play(t *testing.T, e rules.Engine, moves ...string) string {
	t.Helper()
	fen := e.Start()
	for _, m := range moves {
		mv, err := e.Resolve(fen, m)
		require.NoError(t, err, "resolving %s", m)
		fen, err = e.Apply(fen, mv.UCI)
		require.NoError(t, err, "applying %s", m)
	}
	return fen
}

func TestStart(t *testing.T) {
	e := rules.New()
	board, err := e.Decode(e.Start())
	require.NoError(t, err)
	assert.Equal(t, models.White, board.SideToMove)
	assert.Equal(t, 1, board.FullMove)
	assert.True(t, strings.HasPrefix(e.Start(), "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq"))
}

func TestResolve_SANAndUCI(t *testing.T) {
	e := rules.New()
	start := e.Start()

	san, err := e.Resolve(start, "Nf3")
	require.NoError(t, err)
	assert.Equal(t, "g1f3", san.UCI)

	uci, err := e.Resolve(start, "g1f3")
	require.NoError(t, err)
	assert.Equal(t, "Nf3", uci.SAN)

	rendered, err := e.SAN(start, "b1c3")
	require.NoError(t, err)
	assert.Equal(t, "Nc3", rendered)

	numbered, err := e.Resolve(start, "1.e4")
	require.NoError(t, err)
	assert.Equal(t, "e2e4", numbered.UCI)
}

func TestResolve_Illegal(t *testing.T) {
	e := rules.New()
	for _, m := range []string{"e5", "Nf6", "Ke2", "", "zz"} {
		_, err := e.Resolve(e.Start(), m)
		assert.Error(t, err, m)
	}
}

func TestResolve_AmbiguousSAN(t *testing.T) {
	e := rules.New()

	fen := play(t, e, "e4", "e5", "Nc3", "Nc6", "Nf3", "Nf6", "d3", "d6")
	mv, err := e.Resolve(fen, "Nd2")
	require.NoError(t, err, "only the f3 knight reaches d2")
	assert.Equal(t, "f3d2", mv.UCI)

	fen = play(t, e, "d4", "d5", "Nf3", "Nf6", "e3", "e6", "Bd3")
	_, err = e.Resolve(fen, "Nd7")
	assert.Error(t, err, "b8 and f6 knights can both land on d7")

	mv, err = e.Resolve(fen, "Nfd7")
	require.NoError(t, err)
	assert.Equal(t, "f6d7", mv.UCI)
}

func TestCanonical_TransposedMoveOrdersMatch(t *testing.T) {
	e := rules.New()
	a := play(t, e, "d4", "Nf6", "c4", "e6")
	b := play(t, e, "c4", "e6", "d4", "Nf6")
	assert.Equal(t, a, b)
}

func TestCanonical_DropsUselessEnPassantSquare(t *testing.T) {
	e := rules.New()
	fen := play(t, e, "e4")
	fields := strings.Fields(fen)
	require.Len(t, fields, 6)
	assert.Equal(t, "-", fields[3])
	assert.Equal(t, "0", fields[4])

	// After 1. e4 a6 2. e5 d5 exd6 is legal, so the square survives.
	fen = play(t, e, "e4", "a6", "e5", "d5")
	assert.Equal(t, "d6", strings.Fields(fen)[3])
}

func TestSuccessors(t *testing.T) {
	e := rules.New()
	succ, err := e.Successors(e.Start())
	require.NoError(t, err)
	assert.Len(t, succ, 20)

	after := play(t, e, "e4")
	found := false
	for _, s := range succ {
		if s.Move.SAN == "e4" {
			found = true
			assert.Equal(t, after, s.FEN)
		}
	}
	assert.True(t, found)
}

func TestDecodeFEN(t *testing.T) {
	board, err := rules.DecodeFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	require.NoError(t, err)
	assert.Equal(t, models.Black, board.SideToMove)
	assert.Equal(t, 1, board.FullMove)

	_, err = rules.DecodeFEN("not a fen")
	assert.Error(t, err)
	_, err = rules.DecodeFEN("8/8/8/8/8/8/8/8 x - - 0 1")
	assert.Error(t, err)
}

func TestSplitMoves(t *testing.T) {
	assert.Equal(t, []string{"e4", "c5", "Nf3", "d6"}, rules.SplitMoves("1. e4 c5 2.Nf3 d6 *"))
	assert.Equal(t, []string{"e5"}, rules.SplitMoves("1... e5"))
	assert.Empty(t, rules.SplitMoves("  "))
}

func TestFormatLine(t *testing.T) {
	w := func(n int) rules.Board { return rules.Board{SideToMove: models.White, FullMove: n} }
	b := func(n int) rules.Board { return rules.Board{SideToMove: models.Black, FullMove: n} }

	assert.Equal(t, "1. e4 c5 2. Nf3",
		rules.FormatLine([]rules.LinePly{{"e4", w(1)}, {"c5", b(1)}, {"Nf3", w(2)}}))
	assert.Equal(t, "1... e5 2. Nf3",
		rules.FormatLine([]rules.LinePly{{"e5", b(1)}, {"Nf3", w(2)}}))
	assert.Equal(t, "", rules.FormatLine(nil))
}
