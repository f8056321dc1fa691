package handlers

import (
	"encoding/json"
	"net/http"

	"labstock/internal/cache"
	"labstock/internal/middleware"
	"labstock/internal/models"
	"labstock/internal/repositories"
	"labstock/internal/services"
)

type BorrowingHandler struct {
	Ledger        *services.LedgerService
	BorrowingRepo *repositories.BorrowingRepository
	Cache         *cache.Cache
}

func NewBorrowingHandler(ledger *services.LedgerService, borrowingRepo *repositories.BorrowingRepository, c *cache.Cache) *BorrowingHandler {
	return &BorrowingHandler{Ledger: ledger, BorrowingRepo: borrowingRepo, Cache: c}
}

// IssueBorrowing creates a borrowing directly, bypassing the request flow.
// Admin only.
func (h *BorrowingHandler) IssueBorrowing(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBorrowingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	issuerID, _ := middleware.GetUserIDFromContext(r.Context())
	issuerName, _ := middleware.GetUserNameFromContext(r.Context())
	if req.UserID == 0 {
		req.UserID = issuerID
	}

	b, err := h.Ledger.IssueBorrowing(r.Context(), &req, issuerID, issuerName)
	if err != nil {
		writeError(w, err)
		return
	}
	h.Cache.InvalidateItemCaches(r.Context())

	writeJSON(w, http.StatusCreated, b)
}

// ReturnBorrowing closes an open borrowing
func (h *BorrowingHandler) ReturnBorrowing(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req models.ReturnBorrowingRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	userName, _ := middleware.GetUserNameFromContext(r.Context())

	b, err := h.Ledger.ReturnBorrowing(r.Context(), id, req.Notes, userID, userName)
	if err != nil {
		writeError(w, err)
		return
	}
	h.Cache.InvalidateItemCaches(r.Context())

	writeJSON(w, http.StatusOK, b)
}

func (h *BorrowingHandler) GetBorrowing(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	b, err := h.BorrowingRepo.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, b)
}

func (h *BorrowingHandler) ListBorrowings(w http.ResponseWriter, r *http.Request) {
	var (
		bs  []*models.Borrowing
		err error
	)
	if r.URL.Query().Get("open") == "true" {
		bs, err = h.BorrowingRepo.ListOpen(r.Context())
	} else {
		bs, err = h.BorrowingRepo.List(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bs)
}

// ListMyBorrowings returns the authenticated user's borrowings
func (h *BorrowingHandler) ListMyBorrowings(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	bs, err := h.BorrowingRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bs)
}
