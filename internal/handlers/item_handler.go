package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"labstock/internal/cache"
	"labstock/internal/middleware"
	"labstock/internal/models"
	"labstock/internal/repositories"
	"labstock/internal/services"
)

type ItemHandler struct {
	ItemRepo *repositories.ItemRepository
	Audit    *services.AuditService
	Cache    *cache.Cache
}

func NewItemHandler(itemRepo *repositories.ItemRepository, audit *services.AuditService, c *cache.Cache) *ItemHandler {
	return &ItemHandler{ItemRepo: itemRepo, Audit: audit, Cache: c}
}

func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req models.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item := &models.Item{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Quantity:    req.Quantity,
	}
	if req.Name == "" || req.Quantity < 0 {
		http.Error(w, "name is required and quantity must not be negative", http.StatusBadRequest)
		return
	}
	if err := h.ItemRepo.Create(r.Context(), item); err != nil {
		writeError(w, err)
		return
	}
	h.Cache.InvalidateItemCaches(r.Context())

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	userName, _ := middleware.GetUserNameFromContext(r.Context())
	h.Audit.Record(r.Context(), userID, userName, "ITEM_CREATED",
		fmt.Sprintf("Created item %q with quantity %d", item.Name, item.Quantity))

	writeJSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	item, err := h.ItemRepo.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// ListItems serves the item list from Redis when fresh, hitting the database
// on cache misses only.
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	if data, ok := h.Cache.GetCached(r.Context(), cache.ItemListKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.Write(data)
		return
	}

	items, err := h.ItemRepo.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	payload, err := json.Marshal(items)
	if err != nil {
		writeError(w, err)
		return
	}
	h.Cache.SetCached(r.Context(), cache.ItemListKey, payload, 30*time.Second)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Write(payload)
}

func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req models.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.ItemRepo.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	h.Cache.InvalidateItemCaches(r.Context())

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	userName, _ := middleware.GetUserNameFromContext(r.Context())
	h.Audit.Record(r.Context(), userID, userName, "ITEM_UPDATED",
		fmt.Sprintf("Updated item %d (%s)", item.ID, item.Name))

	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.ItemRepo.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	h.Cache.InvalidateItemCaches(r.Context())

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	userName, _ := middleware.GetUserNameFromContext(r.Context())
	h.Audit.Record(r.Context(), userID, userName, "ITEM_DELETED",
		fmt.Sprintf("Deleted item %d", id))

	w.WriteHeader(http.StatusNoContent)
}
