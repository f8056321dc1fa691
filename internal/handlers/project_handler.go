package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"labstock/internal/middleware"
	"labstock/internal/models"
	"labstock/internal/repositories"
	"labstock/internal/services"
)

type ProjectHandler struct {
	ProjectRepo    *repositories.ProjectRepository
	AllocationRepo *repositories.AllocationRepository
	Audit          *services.AuditService
}

func NewProjectHandler(projectRepo *repositories.ProjectRepository, allocationRepo *repositories.AllocationRepository, audit *services.AuditService) *ProjectHandler {
	return &ProjectHandler{ProjectRepo: projectRepo, AllocationRepo: allocationRepo, Audit: audit}
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProjectRequest
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

	p := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		OwnerUserID: userID,
		OwnerName:   userName,
	}
	if err := h.ProjectRepo.Create(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}

	h.Audit.Record(r.Context(), userID, userName, "PROJECT_CREATED",
		fmt.Sprintf("Created project %q", p.Name))

	writeJSON(w, http.StatusCreated, p)
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	p, err := h.ProjectRepo.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	ps, err := h.ProjectRepo.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ps)
}

// ListProjectAllocations returns the allocations claimed by a project
func (h *ProjectHandler) ListProjectAllocations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	allocs, err := h.AllocationRepo.ListByProject(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, allocs)
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req models.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Status != "" && req.Status != "active" && req.Status != "archived" {
		http.Error(w, "status must be active or archived", http.StatusBadRequest)
		return
	}

	p, err := h.ProjectRepo.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	userName, _ := middleware.GetUserNameFromContext(r.Context())
	h.Audit.Record(r.Context(), userID, userName, "PROJECT_UPDATED",
		fmt.Sprintf("Updated project %d (%s)", p.ID, p.Name))

	writeJSON(w, http.StatusOK, p)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.ProjectRepo.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	userName, _ := middleware.GetUserNameFromContext(r.Context())
	h.Audit.Record(r.Context(), userID, userName, "PROJECT_DELETED",
		fmt.Sprintf("Deleted project %d", id))

	w.WriteHeader(http.StatusNoContent)
}
