package handlers

import (
	"net/http"
	"strconv"

	"labstock/internal/services"
)

// HistoryHandler is read-only. History rows are written by the services that
// perform the underlying actions; there is no create/update/delete API.
type HistoryHandler struct {
	Audit *services.AuditService
}

func NewHistoryHandler(audit *services.AuditService) *HistoryHandler {
	return &HistoryHandler{Audit: audit}
}

func (h *HistoryHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	entries, err := h.Audit.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
