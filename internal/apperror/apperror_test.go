package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", ErrValidation, http.StatusBadRequest},
		{"insufficient stock", ErrInsufficientStock, http.StatusConflict},
		{"invalid state", ErrInvalidState, http.StatusConflict},
		{"already returned", ErrAlreadyReturned, http.StatusConflict},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Status(tc.err))
		})
	}
}

func TestStatusUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("failed to claim stock: %w", ErrInsufficientStock)
	assert.Equal(t, http.StatusConflict, Status(wrapped))

	deep := fmt.Errorf("approve request 7: %w", wrapped)
	assert.Equal(t, http.StatusConflict, Status(deep))
}

func TestMessageMasksInternalErrors(t *testing.T) {
	internal := errors.New("dial tcp 127.0.0.1:5432: connection refused")
	assert.Equal(t, "internal server error", Message(internal))

	domain := Validation("quantity must be positive")
	assert.Contains(t, Message(domain), "quantity must be positive")
}

func TestValidationConstructor(t *testing.T) {
	err := Validation("invalid %s", "email")
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "invalid email")
}

func TestNotFoundConstructor(t *testing.T) {
	err := NotFound("item", 42)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "item 42")
	assert.Equal(t, http.StatusNotFound, Status(err))
}
