package models

// ColorStat counts the trainable entries of one repertoire color.
type ColorStat struct {
	Total   int `json:"total"`
	Learned int `json:"learned"`
}

// Stats is the dashboard view of a user's repertoires.
type Stats struct {
	DueCount       int                 `json:"due_count"`
	TotalPositions int                 `json:"total_positions"`
	ColorStats     map[Color]ColorStat `json:"color_stats"`
}
