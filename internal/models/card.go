package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Phase is the scheduling regime a card is in.
type Phase string

const (
	PhaseLearning    Phase = "learning"
	PhaseExponential Phase = "exponential"
	PhaseRelearning  Phase = "relearning"
)

// IsValid reports whether p is one of the three known phases.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseLearning, PhaseExponential, PhaseRelearning:
		return true
	}
	return false
}

// Stepped reports whether cards in p move along a step ladder.
func (p Phase) Stepped() bool {
	return p == PhaseLearning || p == PhaseRelearning
}

func (p Phase) String() string { return string(p) }

// Value implements driver.Valuer.
func (p Phase) Value() (driver.Value, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("invalid phase %q", string(p))
	}
	return string(p), nil
}

// Scan implements sql.Scanner.
func (p *Phase) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Phase", src)
	}
	if !Phase(s).IsValid() {
		return fmt.Errorf("invalid phase %q", s)
	}
	*p = Phase(s)
	return nil
}

// CardState is the spaced-repetition payload of an entry.
// LearningStep is nil while the card is in the exponential phase.
type CardState struct {
	IntervalDays   int        `json:"interval_days"`
	EaseFactor     float64    `json:"ease_factor"`
	Repetitions    int        `json:"repetitions"`
	Phase          Phase      `json:"phase"`
	LearningStep   *int       `json:"learning_step"`
	NextReviewDate time.Time  `json:"next_review_date"`
	LastReviewDate *time.Time `json:"last_review_date"`
}

// NewCardState is the state of a freshly saved move: due immediately, first
// learning step.
func NewCardState(ease float64, now time.Time) CardState {
	step := 0
	return CardState{
		EaseFactor:     ease,
		Phase:          PhaseLearning,
		LearningStep:   &step,
		NextReviewDate: now,
	}
}

// Step returns the learning step index, or 0 when none is set.
func (c CardState) Step() int {
	if c.LearningStep == nil {
		return 0
	}
	return *c.LearningStep
}

// IsDue reports whether the card should be shown at now.
func (c CardState) IsDue(now time.Time) bool {
	return !c.NextReviewDate.After(now)
}

// Clone returns a copy that shares no pointers with c.
func (c CardState) Clone() CardState {
	out := c
	if c.LearningStep != nil {
		v := *c.LearningStep
		out.LearningStep = &v
	}
	if c.LastReviewDate != nil {
		v := *c.LastReviewDate
		out.LastReviewDate = &v
	}
	return out
}

// SetStep moves the card onto a step of its ladder.
func (c *CardState) SetStep(step int) {
	c.LearningStep = &step
}

// ClearStep drops the ladder position when the card leaves the stepped phases.
func (c *CardState) ClearStep() {
	c.LearningStep = nil
}
