package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sousa16/chesslab/internal/models"
	"github.com/sousa16/chesslab/internal/rules"
	"github.com/sousa16/chesslab/internal/stats"
)

const (
	startFEN    = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	afterE4     = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1"
	afterE4C5   = "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2"
	afterE4E5   = "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2"
	afterE4E5N3 = "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 0 2"
)

var now = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func entry(color models.Color, fen string, user bool, reps int, next time.Time) models.Entry {
	return models.Entry{
		Color:    color,
		FEN:      fen,
		UserMove: user,
		Card: models.CardState{
			Repetitions:    reps,
			EaseFactor:     2.5,
			Phase:          models.PhaseExponential,
			NextReviewDate: next,
		},
	}
}

func TestAggregate(t *testing.T) {
	entries := []models.Entry{
		// White's first move is not counted.
		entry(models.White, startFEN, true, 3, now.Add(-time.Hour)),
		entry(models.White, afterE4, false, 0, now.Add(-time.Hour)),
		entry(models.White, afterE4C5, true, 2, now.Add(-time.Minute)),
		entry(models.White, afterE4E5, true, 0, now.Add(time.Hour)),
		// Neither is Black's reply to 1. e4.
		entry(models.Black, afterE4, true, 0, now),
		entry(models.Black, afterE4E5N3, true, 1, now.Add(24*time.Hour)),
	}

	got, err := stats.Aggregate(entries, now, rules.New())
	require.NoError(t, err)

	assert.Equal(t, 3, got.TotalPositions)
	assert.Equal(t, 1, got.DueCount)
	assert.Equal(t, models.ColorStat{Total: 2, Learned: 1}, got.ColorStats[models.White])
	assert.Equal(t, models.ColorStat{Total: 1, Learned: 1}, got.ColorStats[models.Black])
}

func TestAggregate_Empty(t *testing.T) {
	got, err := stats.Aggregate(nil, now, rules.New())
	require.NoError(t, err)
	assert.Zero(t, got.TotalPositions)
	assert.Len(t, got.ColorStats, 2)
}

func TestAggregate_BadFEN(t *testing.T) {
	_, err := stats.Aggregate([]models.Entry{entry(models.White, "garbage", true, 0, now)}, now, rules.New())
	assert.Error(t, err)
}

func TestFirstMove(t *testing.T) {
	assert.True(t, stats.FirstMove(models.White, rules.Board{SideToMove: models.White, FullMove: 1}))
	assert.False(t, stats.FirstMove(models.White, rules.Board{SideToMove: models.Black, FullMove: 1}))
	assert.True(t, stats.FirstMove(models.Black, rules.Board{SideToMove: models.Black, FullMove: 1}))
	assert.False(t, stats.FirstMove(models.Black, rules.Board{SideToMove: models.Black, FullMove: 2}))
}
