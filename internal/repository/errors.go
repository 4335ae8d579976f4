package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrEntryConflict matches any *EntryConflictError.
	ErrEntryConflict = errors.New("entry conflict")
	// ErrStaleEntry is returned when a compare-and-swap update finds a newer
	// version.
	ErrStaleEntry = errors.New("stale entry version")
)

// EntryConflictError is returned when a line plays a different owner move in a
// position the repertoire already answers.
type EntryConflictError struct {
	FEN       string
	Existing  string
	Attempted string
}

func (e *EntryConflictError) Error() string {
	return fmt.Sprintf("entry conflict at %q: stored %s, got %s", e.FEN, e.Existing, e.Attempted)
}

func (e *EntryConflictError) Is(target error) bool {
	return target == ErrEntryConflict
}
