package handler

import (
	"net/http"
	"strconv"

	"github.com/settleline/api/internal/middleware"
	"github.com/settleline/api/internal/model"
	"github.com/settleline/api/internal/service"
)

// DashboardHandler handles the authenticated user's progress and feed
type DashboardHandler struct {
	progress      *service.ProgressService
	notifications *service.NotificationService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(progress *service.ProgressService, notifications *service.NotificationService) *DashboardHandler {
	return &DashboardHandler{
		progress:      progress,
		notifications: notifications,
	}
}

// GetProgress handles GET /v1/dashboard/progress
func (h *DashboardHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	progress, err := h.progress.GetProgress(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, progress)
}

// ToggleProgress handles PUT /v1/dashboard/progress
func (h *DashboardHandler) ToggleProgress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.ToggleProgressRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	progress, err := h.progress.ToggleTask(r.Context(), userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, progress)
}

// GetNotifications handles GET /v1/dashboard/notifications
func (h *DashboardHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	q := r.URL.Query()
	limit := parseIntParam(q.Get("limit"), 0)
	offset := parseIntParam(q.Get("offset"), 0)
	unreadOnly := q.Get("unreadOnly") == "true"

	feed, err := h.notifications.GetFeed(r.Context(), userID, limit, offset, unreadOnly)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, feed)
}

// parseIntParam parses a query parameter, falling back on empty or bad input
func parseIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
