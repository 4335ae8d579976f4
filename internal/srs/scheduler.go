// Package srs implements the SM-2 variant that schedules repertoire moves.
//
// Cards move through three phases. New cards walk the learning step ladder,
// graduate into the exponential phase where intervals grow with the ease
// factor, and fall back to the relearning ladder on a lapse.
package srs

import (
	"fmt"
	"math"
	"time"

	"github.com/sousa16/chesslab/internal/models"
)

const day = 24 * time.Hour

// Transition names the phase change a review caused.
type Transition string

const (
	TransitionStep      Transition = "step"
	TransitionGraduate  Transition = "graduate"
	TransitionLapse     Transition = "lapse"
	TransitionReset     Transition = "reset"
	TransitionIncrement Transition = "increment"
)

// Result is the outcome of a single review.
type Result struct {
	Card         models.CardState `json:"card"`
	Response     Response         `json:"response"`
	IntervalDays int              `json:"interval_days"`
	Message      string           `json:"message"`
	Transition   Transition       `json:"transition"`
}

// Schedule applies response to card at now. The input card is not mutated.
func Schedule(card models.CardState, response Response, cfg Config, now time.Time) (Result, error) {
	if !response.IsValid() {
		return Result{}, fmt.Errorf("srs: %w", errInvalidResponse(response))
	}
	c := card.Clone()
	if !c.Phase.IsValid() {
		return Result{}, fmt.Errorf("srs: card has invalid phase %q", c.Phase)
	}
	if c.EaseFactor < cfg.MinimumEase {
		c.EaseFactor = cfg.MinimumEase
	}

	var tr Transition
	var wait time.Duration
	switch {
	case response == Forgot:
		tr, wait = forget(&c, cfg)
	case c.Phase.Stepped():
		tr, wait = advance(&c, response, cfg)
	default:
		tr, wait = grow(&c, response, cfg)
	}

	c.NextReviewDate = now.Add(wait)
	reviewed := now
	c.LastReviewDate = &reviewed

	return Result{
		Card:         c,
		Response:     response,
		IntervalDays: c.IntervalDays,
		Message:      message(tr, c, wait),
		Transition:   tr,
	}, nil
}

// Preview returns what each response would do to card, without committing
// anything.
func Preview(card models.CardState, cfg Config, now time.Time) (map[Response]Result, error) {
	out := make(map[Response]Result, len(Responses))
	for _, r := range Responses {
		res, err := Schedule(card, r, cfg, now)
		if err != nil {
			return nil, err
		}
		out[r] = res
	}
	return out, nil
}

func forget(c *models.CardState, cfg Config) (Transition, time.Duration) {
	if c.Phase == models.PhaseLearning {
		c.SetStep(0)
		return TransitionReset, cfg.LearningSteps[0]
	}
	tr := TransitionLapse
	if c.Phase == models.PhaseRelearning {
		tr = TransitionReset
	}
	c.Phase = models.PhaseRelearning
	c.Repetitions = 0
	c.IntervalDays = 0
	c.SetStep(0)
	c.EaseFactor = math.Max(cfg.MinimumEase, c.EaseFactor-cfg.LapsePenalty)
	return tr, cfg.RelearningSteps[0]
}

func advance(c *models.CardState, response Response, cfg Config) (Transition, time.Duration) {
	steps := cfg.LearningSteps
	if c.Phase == models.PhaseRelearning {
		steps = cfg.RelearningSteps
	}
	next := c.Step() + 1
	if next >= len(steps) {
		interval := cfg.GraduatingInterval
		if response == Easy {
			interval = cfg.EasyInterval
		}
		interval = min(interval, cfg.MaximumIntervalDays)
		c.Phase = models.PhaseExponential
		c.Repetitions = 1
		c.IntervalDays = interval
		c.ClearStep()
		return TransitionGraduate, time.Duration(interval) * day
	}
	c.SetStep(next)
	return TransitionStep, steps[next]
}

func grow(c *models.CardState, response Response, cfg Config) (Transition, time.Duration) {
	prev := c.IntervalDays
	multiplier := cfg.PartialMultiplier
	switch response {
	case Easy:
		c.EaseFactor += cfg.EasyBonus
		multiplier = c.EaseFactor
	case Effort:
		c.EaseFactor += cfg.EffortBonus
		multiplier = c.EaseFactor
	case Partial:
		c.EaseFactor = math.Max(cfg.MinimumEase, c.EaseFactor-cfg.PartialPenalty)
	}
	interval := int(math.Round(float64(prev) * multiplier))
	interval = max(interval, prev+1)
	// A cap lowered after the card grew holds it in place; it never shrinks.
	interval = min(interval, max(cfg.MaximumIntervalDays, prev))

	c.Repetitions++
	c.IntervalDays = interval
	c.ClearStep()
	return TransitionIncrement, time.Duration(interval) * day
}

func message(tr Transition, c models.CardState, wait time.Duration) string {
	switch tr {
	case TransitionLapse:
		return fmt.Sprintf("Lapsed. Relearning, next review in %s", humanize(wait))
	case TransitionReset:
		return fmt.Sprintf("Back to the first step, next review in %s", humanize(wait))
	case TransitionStep:
		return fmt.Sprintf("Step %d, next review in %s", c.Step()+1, humanize(wait))
	case TransitionGraduate:
		return fmt.Sprintf("Graduated, next review in %s", humanize(wait))
	default:
		return fmt.Sprintf("Next review in %s", humanize(wait))
	}
}

func humanize(d time.Duration) string {
	switch {
	case d >= day:
		n := int(d / day)
		if n == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", n)
	case d >= time.Hour:
		n := int(d / time.Hour)
		if n == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", n)
	default:
		n := int(d / time.Minute)
		if n == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", n)
	}
}

type errInvalidResponse Response

func (e errInvalidResponse) Error() string {
	return fmt.Sprintf("invalid response %d", int(e))
}
