package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"labstock/internal/cache"
	"labstock/internal/middleware"
	"labstock/internal/models"
	"labstock/internal/repositories"
	"labstock/internal/services"
)

type CompetitionHandler struct {
	CompetitionRepo *repositories.CompetitionRepository
	Ledger          *services.LedgerService
	Audit           *services.AuditService
	Cache           *cache.Cache
}

func NewCompetitionHandler(competitionRepo *repositories.CompetitionRepository, ledger *services.LedgerService, audit *services.AuditService, c *cache.Cache) *CompetitionHandler {
	return &CompetitionHandler{CompetitionRepo: competitionRepo, Ledger: ledger, Audit: audit, Cache: c}
}

func (h *CompetitionHandler) CreateCompetition(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCompetitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	userName, _ := middleware.GetUserNameFromContext(r.Context())

	c := &models.Competition{
		Name:        req.Name,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		CreatedBy:   userID,
	}
	if err := h.CompetitionRepo.Create(r.Context(), c); err != nil {
		writeError(w, err)
		return
	}

	h.Audit.Record(r.Context(), userID, userName, "COMPETITION_CREATED",
		fmt.Sprintf("Created competition %q", c.Name))

	writeJSON(w, http.StatusCreated, c)
}

func (h *CompetitionHandler) GetCompetition(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	c, err := h.CompetitionRepo.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *CompetitionHandler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	cs, err := h.CompetitionRepo.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cs)
}

// ListCompetitionItems returns the equipment pool reserved for a competition
func (h *CompetitionHandler) ListCompetitionItems(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	items, err := h.CompetitionRepo.ListItems(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// AddCompetitionItem reserves stock into the competition pool
func (h *CompetitionHandler) AddCompetitionItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req models.AddCompetitionItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	userName, _ := middleware.GetUserNameFromContext(r.Context())

	ci, err := h.Ledger.ReserveForCompetition(r.Context(), id, &req, userID, userName)
	if err != nil {
		writeError(w, err)
		return
	}
	h.Cache.InvalidateItemCaches(r.Context())

	writeJSON(w, http.StatusCreated, ci)
}

// RemoveCompetitionItem releases a pool reservation back to stock. The
// reservation must belong to the competition in the path.
func (h *CompetitionHandler) RemoveCompetitionItem(w http.ResponseWriter, r *http.Request) {
	competitionID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	itemID, err := pathID(r, "itemId")
	if err != nil {
		writeError(w, err)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	userName, _ := middleware.GetUserNameFromContext(r.Context())

	if err := h.Ledger.ReleaseCompetitionItem(r.Context(), competitionID, itemID, userID, userName); err != nil {
		writeError(w, err)
		return
	}
	h.Cache.InvalidateItemCaches(r.Context())

	w.WriteHeader(http.StatusNoContent)
}
