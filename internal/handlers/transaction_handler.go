package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"labstock/internal/cache"
	"labstock/internal/middleware"
	"labstock/internal/models"
	"labstock/internal/repositories"
	"labstock/internal/services"
)

type TransactionHandler struct {
	Ledger          *services.LedgerService
	TransactionRepo *repositories.TransactionRepository
	Cache           *cache.Cache
}

func NewTransactionHandler(ledger *services.LedgerService, transactionRepo *repositories.TransactionRepository, c *cache.Cache) *TransactionHandler {
	return &TransactionHandler{Ledger: ledger, TransactionRepo: transactionRepo, Cache: c}
}

// CreateTransaction records a manual issue or return. Admin only.
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	adminID, _ := middleware.GetUserIDFromContext(r.Context())
	adminName, _ := middleware.GetUserNameFromContext(r.Context())
	if req.UserID == 0 {
		req.UserID = adminID
	}

	t, err := h.Ledger.RecordManualTransaction(r.Context(), &req, adminID, adminName)
	if err != nil {
		writeError(w, err)
		return
	}
	h.Cache.InvalidateItemCaches(r.Context())

	writeJSON(w, http.StatusCreated, t)
}

func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	if itemIDStr := r.URL.Query().Get("item_id"); itemIDStr != "" {
		itemID, err := strconv.Atoi(itemIDStr)
		if err != nil || itemID <= 0 {
			http.Error(w, "invalid item_id", http.StatusBadRequest)
			return
		}
		ts, err := h.TransactionRepo.ListByItem(r.Context(), itemID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ts)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	ts, err := h.TransactionRepo.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ts)
}
