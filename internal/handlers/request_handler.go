package handlers

import (
	"encoding/json"
	"net/http"

	"labstock/internal/cache"
	"labstock/internal/middleware"
	"labstock/internal/models"
	"labstock/internal/services"
)

type RequestHandler struct {
	Service *services.RequestService
	Cache   *cache.Cache
}

func NewRequestHandler(s *services.RequestService, c *cache.Cache) *RequestHandler {
	return &RequestHandler{Service: s, Cache: c}
}

func (h *RequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	userName, _ := middleware.GetUserNameFromContext(r.Context())

	created, err := h.Service.Create(r.Context(), &req, userID, userName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *RequestHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	req, err := h.Service.RequestRepo.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	// Members see only their own requests
	role, _ := middleware.GetRoleFromContext(r.Context())
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	if role != "admin" && req.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

// ListRequests returns all requests (admin), with ?status=pending narrowing
// to the approval queue.
func (h *RequestHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	var (
		reqs []*models.Request
		err  error
	)
	if r.URL.Query().Get("status") == "pending" {
		reqs, err = h.Service.RequestRepo.ListPending(r.Context())
	} else {
		reqs, err = h.Service.RequestRepo.List(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reqs)
}

// ListMyRequests returns the authenticated user's requests
func (h *RequestHandler) ListMyRequests(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	reqs, err := h.Service.RequestRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reqs)
}

func (h *RequestHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	adminID, _ := middleware.GetUserIDFromContext(r.Context())
	adminName, _ := middleware.GetUserNameFromContext(r.Context())

	resp, err := h.Service.Approve(r.Context(), id, adminID, adminName)
	if err != nil {
		writeError(w, err)
		return
	}
	h.Cache.InvalidateItemCaches(r.Context())

	writeJSON(w, http.StatusOK, resp)
}

func (h *RequestHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body models.ResolveRequestRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&body)
	}

	adminID, _ := middleware.GetUserIDFromContext(r.Context())
	adminName, _ := middleware.GetUserNameFromContext(r.Context())

	req, err := h.Service.Reject(r.Context(), id, adminID, adminName, body.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

func (h *RequestHandler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body models.ResolveRequestRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&body)
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	userName, _ := middleware.GetUserNameFromContext(r.Context())

	req, err := h.Service.Cancel(r.Context(), id, userID, userName, body.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, req)
}
