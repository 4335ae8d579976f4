package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeInternal            = "INTERNAL_ERROR"
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeInvalidMoveSequence = "INVALID_MOVE_SEQUENCE"
	ErrCodeRepertoireNotFound  = "REPERTOIRE_NOT_FOUND"
	ErrCodeEntryConflict       = "ENTRY_CONFLICT"
	ErrCodeEntryNotFound       = "ENTRY_NOT_FOUND"
	ErrCodeNotOwner            = "NOT_OWNER"
	ErrCodeInvalidResponse     = "INVALID_RESPONSE"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "ENTRY_CONFLICT")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError carrying the same code, so callers can compare
// against a zero-message template such as &AppError{Code: ErrCodeNotOwner}.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// As extracts the first *AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewUnauthorizedError reports a request without a known user.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Status:  401,
	}
}

// NewConflictError reports a write that lost a compare-and-swap race.
func NewConflictError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: fmt.Sprintf("%s %v was modified concurrently, reload and retry", resource, id),
		Status:  409,
	}
}

// NewInvalidMoveSequenceError reports the first ply (1-based) that could not be
// resolved or played.
func NewInvalidMoveSequenceError(ply int, move string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidMoveSequence,
		Message: fmt.Sprintf("move %d (%q) is not legal in this position", ply, move),
		Status:  400,
		Err:     err,
	}
}

// NewRepertoireNotFoundError creates a new REPERTOIRE_NOT_FOUND error
func NewRepertoireNotFoundError(userID int64, color string) *AppError {
	return &AppError{
		Code:    ErrCodeRepertoireNotFound,
		Message: fmt.Sprintf("no %s repertoire for user %d", color, userID),
		Status:  404,
	}
}

// NewEntryConflictError reports a saved line that disagrees with the move the
// repertoire already commits to in a position.
func NewEntryConflictError(fen, existing, attempted string) *AppError {
	return &AppError{
		Code:    ErrCodeEntryConflict,
		Message: fmt.Sprintf("position %q already expects %s, line plays %s", fen, existing, attempted),
		Status:  409,
	}
}

// NewEntryNotFoundError creates a new ENTRY_NOT_FOUND error
func NewEntryNotFoundError(id int64) *AppError {
	return &AppError{
		Code:    ErrCodeEntryNotFound,
		Message: fmt.Sprintf("entry not found: %d", id),
		Status:  404,
	}
}

// NewNotOwnerError creates a new NOT_OWNER error
func NewNotOwnerError(id int64) *AppError {
	return &AppError{
		Code:    ErrCodeNotOwner,
		Message: fmt.Sprintf("entry %d belongs to another user", id),
		Status:  403,
	}
}

// NewInvalidResponseError creates a new INVALID_RESPONSE error
func NewInvalidResponseError(value string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidResponse,
		Message: fmt.Sprintf("unknown review response %q (want forgot, partial, effort or easy)", value),
		Status:  400,
	}
}
