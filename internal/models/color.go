package models

import (
	"fmt"
	"strings"
)

// Color is the side a repertoire is played from.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// ParseColor accepts "white"/"black" in any case, plus the single-letter
// forms used in FEN ("w"/"b").
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	default:
		return "", fmt.Errorf("invalid color %q", s)
	}
}

func (c Color) String() string { return string(c) }

// Opponent returns the other color.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}
