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

type AllocationHandler struct {
	Ledger         *services.LedgerService
	AllocationRepo *repositories.AllocationRepository
	Cache          *cache.Cache
}

func NewAllocationHandler(ledger *services.LedgerService, allocationRepo *repositories.AllocationRepository, c *cache.Cache) *AllocationHandler {
	return &AllocationHandler{Ledger: ledger, AllocationRepo: allocationRepo, Cache: c}
}

func (h *AllocationHandler) CreateAllocation(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	userName, _ := middleware.GetUserNameFromContext(r.Context())

	alloc, err := h.Ledger.Allocate(r.Context(), &req, userID, userName)
	if err != nil {
		writeError(w, err)
		return
	}
	h.Cache.InvalidateItemCaches(r.Context())

	writeJSON(w, http.StatusCreated, alloc)
}

func (h *AllocationHandler) GetAllocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	alloc, err := h.AllocationRepo.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, alloc)
}

func (h *AllocationHandler) ListAllocations(w http.ResponseWriter, r *http.Request) {
	allocs, err := h.AllocationRepo.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, allocs)
}

func (h *AllocationHandler) DeleteAllocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	userName, _ := middleware.GetUserNameFromContext(r.Context())

	if err := h.Ledger.Deallocate(r.Context(), id, userID, userName); err != nil {
		writeError(w, err)
		return
	}
	h.Cache.InvalidateItemCaches(r.Context())

	w.WriteHeader(http.StatusNoContent)
}
