package models

import "time"

// Position is a deduplicated board state shared by every entry that lands on it.
type Position struct {
	ID        int64     `json:"id"`
	FEN       string    `json:"fen"`
	CreatedAt time.Time `json:"created_at"`
}
