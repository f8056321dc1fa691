package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"labstock/internal/middleware"
	"labstock/internal/models"
	"labstock/internal/repositories"
	"labstock/internal/services"
	"labstock/internal/storage"
)

// Submission uploads are capped at 25 MB
const maxSubmissionSize = 25 << 20

type AssignmentHandler struct {
	AssignmentRepo *repositories.AssignmentRepository
	Storage        *storage.Client // nil when object storage is not configured
	Audit          *services.AuditService
}

func NewAssignmentHandler(assignmentRepo *repositories.AssignmentRepository, storageClient *storage.Client, audit *services.AuditService) *AssignmentHandler {
	return &AssignmentHandler{AssignmentRepo: assignmentRepo, Storage: storageClient, Audit: audit}
}

func (h *AssignmentHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	userName, _ := middleware.GetUserNameFromContext(r.Context())

	a := &models.Assignment{
		CompetitionID: req.CompetitionID,
		ProjectID:     req.ProjectID,
		Title:         req.Title,
		Description:   req.Description,
		DueAt:         req.DueAt,
		CreatedBy:     userID,
	}
	if err := h.AssignmentRepo.Create(r.Context(), a); err != nil {
		writeError(w, err)
		return
	}

	h.Audit.Record(r.Context(), userID, userName, "ASSIGNMENT_CREATED",
		fmt.Sprintf("Created assignment %q", a.Title))

	writeJSON(w, http.StatusCreated, a)
}

func (h *AssignmentHandler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	a, err := h.AssignmentRepo.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

func (h *AssignmentHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	as, err := h.AssignmentRepo.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, as)
}

// SubmitAssignment accepts a multipart submission with optional file upload.
// The file goes to object storage, only the key is stored in the database.
func (h *AssignmentHandler) SubmitAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if _, err := h.AssignmentRepo.Get(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxSubmissionSize); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	userName, _ := middleware.GetUserNameFromContext(r.Context())

	sub := &models.Submission{
		AssignmentID: id,
		UserID:       userID,
		Notes:        r.FormValue("notes"),
	}

	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()

		if h.Storage == nil {
			http.Error(w, "File uploads are not enabled", http.StatusServiceUnavailable)
			return
		}

		data, err := io.ReadAll(io.LimitReader(file, maxSubmissionSize))
		if err != nil {
			http.Error(w, "Failed to read file", http.StatusBadRequest)
			return
		}

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		key, err := h.Storage.Upload(r.Context(), id, header.Filename, data, contentType)
		if err != nil {
			writeError(w, err)
			return
		}
		sub.ObjectKey = &key
		fileName := header.Filename
		sub.FileName = &fileName
	}

	if err := h.AssignmentRepo.CreateSubmission(r.Context(), sub); err != nil {
		// The row failed after the upload succeeded; drop the orphan object
		if sub.ObjectKey != nil && h.Storage != nil {
			h.Storage.Delete(r.Context(), *sub.ObjectKey)
		}
		writeError(w, err)
		return
	}

	h.Audit.Record(r.Context(), userID, userName, "SUBMISSION_CREATED",
		fmt.Sprintf("Submitted to assignment %d", id))

	writeJSON(w, http.StatusCreated, sub)
}

func (h *AssignmentHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	subs, err := h.AssignmentRepo.ListSubmissions(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, subs)
}

// DownloadSubmission streams a submission's uploaded file
func (h *AssignmentHandler) DownloadSubmission(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	submissionID, err := pathID(r, "submissionId")
	if err != nil {
		writeError(w, err)
		return
	}

	subs, err := h.AssignmentRepo.ListSubmissions(r.Context(), assignmentID)
	if err != nil {
		writeError(w, err)
		return
	}

	var sub *models.Submission
	for _, s := range subs {
		if s.ID == submissionID {
			sub = s
			break
		}
	}
	if sub == nil || sub.ObjectKey == nil {
		http.Error(w, "Submission file not found", http.StatusNotFound)
		return
	}
	if h.Storage == nil {
		http.Error(w, "File downloads are not enabled", http.StatusServiceUnavailable)
		return
	}

	data, contentType, err := h.Storage.Download(r.Context(), *sub.ObjectKey)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	if sub.FileName != nil {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", *sub.FileName))
	}
	w.Write(data)
}
