package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labstock/internal/apperror"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestWriteErrorMapsDomainErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantInBody string
	}{
		{"validation", apperror.Validation("quantity must be positive"), http.StatusBadRequest, "quantity must be positive"},
		{"insufficient stock", apperror.ErrInsufficientStock, http.StatusConflict, "insufficient stock"},
		{"not found", apperror.NotFound("item", 9), http.StatusNotFound, "item 9"},
		{"forbidden", apperror.ErrForbidden, http.StatusForbidden, "forbidden"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantInBody)
		})
	}
}

func TestWriteErrorMasksInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("dial tcp: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.Contains(t, strings.ToLower(rec.Body.String()), "internal server error")
}

func TestPathID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/items/42", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "42"})

	id, err := pathID(req, "id")
	require.NoError(t, err)
	assert.Equal(t, 42, id)
}

func TestPathIDRejectsBadValues(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-3", ""} {
		req := httptest.NewRequest(http.MethodGet, "/api/items/"+raw, nil)
		req = mux.SetURLVars(req, map[string]string{"id": raw})

		_, err := pathID(req, "id")
		assert.Error(t, err, "value %q should be rejected", raw)
		assert.True(t, errors.Is(err, apperror.ErrValidation))
	}
}
