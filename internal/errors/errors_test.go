package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sousa16/chesslab/internal/errors"
)

func TestAppError_IsMatchesCode(t *testing.T) {
	err := fmt.Errorf("deleting: %w", errors.NewNotOwnerError(4))

	assert.True(t, stderrors.Is(err, &errors.AppError{Code: errors.ErrCodeNotOwner}))
	assert.False(t, stderrors.Is(err, &errors.AppError{Code: errors.ErrCodeEntryNotFound}))
}

func TestHasCode(t *testing.T) {
	err := errors.NewInvalidMoveSequenceError(3, "Nx9", stderrors.New("no such move"))

	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidMoveSequence))
	assert.False(t, errors.HasCode(stderrors.New("plain"), errors.ErrCodeInvalidMoveSequence))
	assert.Equal(t, 400, err.Status)
	assert.Contains(t, err.Error(), "no such move")
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err    *errors.AppError
		status int
	}{
		{errors.NewRepertoireNotFoundError(1, "white"), 404},
		{errors.NewEntryConflictError("fen", "e2e4", "d2d4"), 409},
		{errors.NewEntryNotFoundError(9), 404},
		{errors.NewNotOwnerError(9), 403},
		{errors.NewInvalidResponseError("meh"), 400},
		{errors.NewConflictError("entry", 9), 409},
		{errors.NewUnauthorizedError("missing X-User-ID"), 401},
		{errors.NewInternalError(stderrors.New("db down")), 500},
	}
	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
		})
	}
}

func TestAs_Unwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	wrapped := fmt.Errorf("saving: %w", errors.NewInternalError(cause))

	appErr, ok := errors.As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrCodeInternal, appErr.Code)
	assert.ErrorIs(t, wrapped, cause)
}
