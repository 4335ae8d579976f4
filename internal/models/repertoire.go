package models

import "time"

// Repertoire groups one user's entries for one color. Version increases on
// every structural change and keys the derived-graph cache.
type Repertoire struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Color     Color     `json:"color"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}
