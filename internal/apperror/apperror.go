// Package apperror defines the domain error taxonomy and its mapping to HTTP
// status codes. Handlers translate through this package so persistence errors
// never leak to clients.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidState      = errors.New("invalid state transition")
	ErrAlreadyReturned   = errors.New("borrowing already returned")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrValidation        = errors.New("validation failed")
)

// Validation wraps ErrValidation with a field-level message.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound wraps ErrNotFound naming the missing resource.
func NotFound(resource string, id int) error {
	return fmt.Errorf("%w: %s %d", ErrNotFound, resource, id)
}

// Status maps a domain error to its HTTP status code. Unknown errors map to
// 500 so transient persistence failures surface without partial effect.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrAlreadyReturned):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for an error. Internal errors are
// masked.
func Message(err error) string {
	if Status(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
