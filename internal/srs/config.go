package srs

import (
	"fmt"
	"time"
)

// Config holds the step ladders and ease constants. Exact numbers are policy;
// the state machine in Schedule does not depend on them.
type Config struct {
	LearningSteps       []time.Duration
	RelearningSteps     []time.Duration
	GraduatingInterval  int // days, after the last step with partial/effort
	EasyInterval        int // days, after the last step with easy
	StartingEase        float64
	MinimumEase         float64
	LapsePenalty        float64
	EasyBonus           float64
	EffortBonus         float64
	PartialPenalty      float64
	PartialMultiplier   float64
	MaximumIntervalDays int
}

// DefaultConfig returns the classic SM-2 ladder: two learning steps, one
// relearning step, graduation at one day.
func DefaultConfig() Config {
	return Config{
		LearningSteps:       []time.Duration{time.Minute, 10 * time.Minute},
		RelearningSteps:     []time.Duration{10 * time.Minute},
		GraduatingInterval:  1,
		EasyInterval:        4,
		StartingEase:        2.5,
		MinimumEase:         1.3,
		LapsePenalty:        0.2,
		EasyBonus:           0.15,
		EffortBonus:         0,
		PartialPenalty:      0.15,
		PartialMultiplier:   1.2,
		MaximumIntervalDays: 36500,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if len(c.LearningSteps) == 0 {
		return fmt.Errorf("srs: learning steps cannot be empty")
	}
	if len(c.RelearningSteps) == 0 {
		return fmt.Errorf("srs: relearning steps cannot be empty")
	}
	for _, d := range append(append([]time.Duration(nil), c.LearningSteps...), c.RelearningSteps...) {
		if d <= 0 {
			return fmt.Errorf("srs: step %v must be positive", d)
		}
	}
	if c.GraduatingInterval < 1 {
		return fmt.Errorf("srs: graduating interval %d must be at least 1 day", c.GraduatingInterval)
	}
	if c.EasyInterval < c.GraduatingInterval {
		return fmt.Errorf("srs: easy interval %d must not be shorter than graduating interval %d", c.EasyInterval, c.GraduatingInterval)
	}
	if c.MinimumEase < 1.3 {
		return fmt.Errorf("srs: minimum ease %.2f below 1.3", c.MinimumEase)
	}
	if c.StartingEase < c.MinimumEase {
		return fmt.Errorf("srs: starting ease %.2f below minimum %.2f", c.StartingEase, c.MinimumEase)
	}
	if c.LapsePenalty <= 0 {
		return fmt.Errorf("srs: lapse penalty must be positive")
	}
	if c.EasyBonus < c.EffortBonus {
		return fmt.Errorf("srs: easy bonus %.2f smaller than effort bonus %.2f", c.EasyBonus, c.EffortBonus)
	}
	if c.PartialPenalty < 0 {
		return fmt.Errorf("srs: partial penalty cannot be negative")
	}
	if c.PartialMultiplier < 1 {
		return fmt.Errorf("srs: partial multiplier %.2f below 1", c.PartialMultiplier)
	}
	if c.MaximumIntervalDays < c.EasyInterval {
		return fmt.Errorf("srs: maximum interval %d shorter than easy interval %d", c.MaximumIntervalDays, c.EasyInterval)
	}
	return nil
}
