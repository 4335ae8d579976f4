package models

import "time"

// Entry is one saved move: from the position, the repertoire plays ExpectedMove.
// Entries for the owner's own plies are training targets; entries for the
// opponent's plies record which replies the repertoire prepares for.
type Entry struct {
	ID           int64     `json:"id"`
	RepertoireID int64     `json:"repertoire_id"`
	PositionID   int64     `json:"position_id"`
	ExpectedMove string    `json:"expected_move"` // UCI
	UserMove     bool      `json:"user_move"`
	Card         CardState `json:"card"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Joined from positions and repertoires.
	FEN    string `json:"fen"`
	UserID int64  `json:"user_id"`
	Color  Color  `json:"color"`
}

// Ply is one replayed half-move of a line, ready to be stored.
type Ply struct {
	FEN      string // canonical position before the move
	Move     string // UCI
	SAN      string
	UserMove bool
}

// ReviewLog records one answered review.
type ReviewLog struct {
	ID           int64     `json:"id"`
	EntryID      int64     `json:"entry_id"`
	Response     string    `json:"response"`
	PhaseBefore  Phase     `json:"phase_before"`
	PhaseAfter   Phase     `json:"phase_after"`
	IntervalDays int       `json:"interval_days"`
	EaseFactor   float64   `json:"ease_factor"`
	ReviewedAt   time.Time `json:"reviewed_at"`
}
