package srs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sousa16/chesslab/internal/models"
	"github.com/sousa16/chesslab/internal/srs"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func exponential(interval int, ease float64, reps int) models.CardState {
	return models.CardState{
		IntervalDays:   interval,
		EaseFactor:     ease,
		Repetitions:    reps,
		Phase:          models.PhaseExponential,
		NextReviewDate: now,
	}
}

func schedule(t *testing.T, card models.CardState, r srs.Response) srs.Result {
	t.Helper()
	res, err := srs.Schedule(card, r, srs.DefaultConfig(), now)
	require.NoError(t, err)
	return res
}

func TestSchedule_EasyOnMatureCard(t *testing.T) {
	res := schedule(t, exponential(6, 2.5, 3), srs.Easy)

	assert.Equal(t, models.PhaseExponential, res.Card.Phase)
	assert.Equal(t, 4, res.Card.Repetitions)
	assert.InDelta(t, 2.65, res.Card.EaseFactor, 1e-9)
	assert.Equal(t, 16, res.IntervalDays)
	assert.Equal(t, now.Add(16*24*time.Hour), res.Card.NextReviewDate)
	require.NotNil(t, res.Card.LastReviewDate)
	assert.Equal(t, now, *res.Card.LastReviewDate)
	assert.Nil(t, res.Card.LearningStep)
	assert.Equal(t, srs.TransitionIncrement, res.Transition)
	assert.Equal(t, "Next review in 16 days", res.Message)
}

func TestSchedule_DoesNotMutateInput(t *testing.T) {
	card := models.NewCardState(2.5, now)
	_ = schedule(t, card, srs.Effort)

	assert.Equal(t, 0, card.Step())
	assert.Nil(t, card.LastReviewDate)
	assert.Equal(t, models.PhaseLearning, card.Phase)
}

func TestSchedule_LearningLadder(t *testing.T) {
	card := models.NewCardState(2.5, now)

	first := schedule(t, card, srs.Effort)
	assert.Equal(t, models.PhaseLearning, first.Card.Phase)
	assert.Equal(t, 1, first.Card.Step())
	assert.Equal(t, now.Add(10*time.Minute), first.Card.NextReviewDate)
	assert.Equal(t, srs.TransitionStep, first.Transition)

	graduated := schedule(t, first.Card, srs.Effort)
	assert.Equal(t, models.PhaseExponential, graduated.Card.Phase)
	assert.Equal(t, 1, graduated.Card.Repetitions)
	assert.Equal(t, 1, graduated.IntervalDays)
	assert.Nil(t, graduated.Card.LearningStep)
	assert.Equal(t, srs.TransitionGraduate, graduated.Transition)
	assert.Equal(t, "Graduated, next review in 1 day", graduated.Message)
}

func TestSchedule_EasyGraduationUsesEasyInterval(t *testing.T) {
	card := models.NewCardState(2.5, now)
	card.SetStep(1)

	res := schedule(t, card, srs.Easy)
	assert.Equal(t, models.PhaseExponential, res.Card.Phase)
	assert.Equal(t, 4, res.IntervalDays)
	assert.InDelta(t, 2.5, res.Card.EaseFactor, 1e-9, "ladder answers leave ease alone")
}

func TestSchedule_ForgotInLearningResetsStep(t *testing.T) {
	card := models.NewCardState(2.5, now)
	card.SetStep(1)

	res := schedule(t, card, srs.Forgot)
	assert.Equal(t, models.PhaseLearning, res.Card.Phase)
	assert.Equal(t, 0, res.Card.Step())
	assert.InDelta(t, 2.5, res.Card.EaseFactor, 1e-9)
	assert.Equal(t, now.Add(time.Minute), res.Card.NextReviewDate)
}

func TestSchedule_LapseAndRelearn(t *testing.T) {
	res := schedule(t, exponential(20, 2.5, 5), srs.Forgot)

	assert.Equal(t, models.PhaseRelearning, res.Card.Phase)
	assert.Equal(t, 0, res.Card.Repetitions)
	assert.Equal(t, 0, res.Card.IntervalDays)
	assert.Equal(t, 0, res.Card.Step())
	assert.InDelta(t, 2.3, res.Card.EaseFactor, 1e-9)
	assert.Equal(t, now.Add(10*time.Minute), res.Card.NextReviewDate)
	assert.Equal(t, srs.TransitionLapse, res.Transition)

	back := schedule(t, res.Card, srs.Partial)
	assert.Equal(t, models.PhaseExponential, back.Card.Phase, "single relearning step graduates")
	assert.Equal(t, 1, back.Card.Repetitions)
	assert.Equal(t, 1, back.IntervalDays)
}

func TestSchedule_EaseFloor(t *testing.T) {
	card := exponential(3, 1.35, 2)
	lapsed := schedule(t, card, srs.Forgot)
	assert.InDelta(t, 1.3, lapsed.Card.EaseFactor, 1e-9)

	partial := schedule(t, exponential(3, 1.3, 2), srs.Partial)
	assert.InDelta(t, 1.3, partial.Card.EaseFactor, 1e-9)
	assert.Equal(t, 4, partial.IntervalDays, "at least one day longer")
}

func TestSchedule_PartialInExponential(t *testing.T) {
	res := schedule(t, exponential(10, 2.5, 3), srs.Partial)
	assert.Equal(t, 12, res.IntervalDays)
	assert.InDelta(t, 2.35, res.Card.EaseFactor, 1e-9)
	assert.Equal(t, 4, res.Card.Repetitions)
}

func TestSchedule_MaximumInterval(t *testing.T) {
	cfg := srs.DefaultConfig()
	cfg.MaximumIntervalDays = 100
	res, err := srs.Schedule(exponential(90, 2.5, 8), srs.Easy, cfg, now)
	require.NoError(t, err)
	assert.Equal(t, 100, res.IntervalDays)

	// Stored interval already past a lowered cap.
	for _, r := range []srs.Response{srs.Partial, srs.Effort, srs.Easy} {
		res, err := srs.Schedule(exponential(150, 2.5, 8), r, cfg, now)
		require.NoError(t, err)
		assert.Equal(t, 150, res.IntervalDays, r.String())
		assert.Equal(t, now.AddDate(0, 0, 150), res.Card.NextReviewDate, r.String())
	}
}

func TestSchedule_Monotonic(t *testing.T) {
	for _, ease := range []float64{1.3, 1.7, 2.5, 3.1} {
		for _, interval := range []int{1, 2, 6, 30, 365} {
			card := exponential(interval, ease, 3)
			partial := schedule(t, card, srs.Partial)
			effort := schedule(t, card, srs.Effort)
			easy := schedule(t, card, srs.Easy)
			forgot := schedule(t, card, srs.Forgot)

			assert.Greater(t, partial.IntervalDays, interval)
			assert.GreaterOrEqual(t, effort.IntervalDays, partial.IntervalDays, "ease=%v interval=%d", ease, interval)
			assert.GreaterOrEqual(t, easy.IntervalDays, effort.IntervalDays, "ease=%v interval=%d", ease, interval)
			assert.Equal(t, 0, forgot.IntervalDays)
			assert.GreaterOrEqual(t, easy.Card.EaseFactor, effort.Card.EaseFactor)
			assert.GreaterOrEqual(t, effort.Card.EaseFactor, partial.Card.EaseFactor)
		}
	}
}

func TestSchedule_InvalidInput(t *testing.T) {
	_, err := srs.Schedule(models.NewCardState(2.5, now), srs.Response(9), srs.DefaultConfig(), now)
	assert.Error(t, err)

	card := models.NewCardState(2.5, now)
	card.Phase = "limbo"
	_, err = srs.Schedule(card, srs.Easy, srs.DefaultConfig(), now)
	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	out, err := srs.Preview(exponential(6, 2.5, 3), srs.DefaultConfig(), now)
	require.NoError(t, err)
	require.Len(t, out, 4)
	assert.Equal(t, 0, out[srs.Forgot].IntervalDays)
	assert.Equal(t, 7, out[srs.Partial].IntervalDays)
	assert.Equal(t, 15, out[srs.Effort].IntervalDays)
	assert.Equal(t, 16, out[srs.Easy].IntervalDays)
}

func TestParseResponse(t *testing.T) {
	r, err := srs.ParseResponse(" Easy ")
	require.NoError(t, err)
	assert.Equal(t, srs.Easy, r)

	r, err = srs.ParseResponse("0")
	require.NoError(t, err)
	assert.Equal(t, srs.Forgot, r)

	_, err = srs.ParseResponse("hard")
	assert.Error(t, err)

	var decoded srs.Response
	require.NoError(t, decoded.UnmarshalText([]byte("partial")))
	assert.Equal(t, srs.Partial, decoded)
	assert.Equal(t, "partial", decoded.String())
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, srs.DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*srs.Config)
	}{
		{"empty learning steps", func(c *srs.Config) { c.LearningSteps = nil }},
		{"empty relearning steps", func(c *srs.Config) { c.RelearningSteps = []time.Duration{} }},
		{"negative step", func(c *srs.Config) { c.LearningSteps = []time.Duration{-time.Minute} }},
		{"ease below floor", func(c *srs.Config) { c.MinimumEase = 1.1 }},
		{"easy shorter than graduating", func(c *srs.Config) { c.EasyInterval = 0 }},
		{"partial multiplier shrinks", func(c *srs.Config) { c.PartialMultiplier = 0.9 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := srs.DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
