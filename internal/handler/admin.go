package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/settleline/api/internal/model"
	"github.com/settleline/api/internal/service"
)

// AdminHandler handles admin-only account and broadcast endpoints.
// Curation of categories and tasks lives in their own handlers; the routes
// are gated by the AdminAuth middleware.
type AdminHandler struct {
	auth          *service.AuthService
	notifications *service.NotificationService
	publicBaseURL string
}

// NewAdminHandler creates a new admin handler. publicBaseURL anchors
// broadcast action links; absolute URLs on another origin are rejected.
func NewAdminHandler(auth *service.AuthService, notifications *service.NotificationService, publicBaseURL string) *AdminHandler {
	return &AdminHandler{
		auth:          auth,
		notifications: notifications,
		publicBaseURL: publicBaseURL,
	}
}

// UpdatePlan handles PATCH /v1/admin/users/{id}/plan
func (h *AdminHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	var req model.UpdatePlanRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	user, err := h.auth.UpdatePlan(r.Context(), userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, user)
}

// Announce handles POST /v1/admin/notifications/announce
func (h *AdminHandler) Announce(w http.ResponseWriter, r *http.Request) {
	var req model.AnnounceRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}
	if req.ActionURL != nil && !h.allowedActionURL(*req.ActionURL) {
		WriteError(w, model.NewValidationError([]model.FieldError{
			{Field: "action_url", Message: "action URL must be relative or on the public origin"},
		}))
		return
	}

	recipients, err := h.notifications.Announce(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, map[string]int{"recipients": recipients})
}

// allowedActionURL accepts site-relative paths and absolute URLs that share
// the configured public origin.
func (h *AdminHandler) allowedActionURL(raw string) bool {
	if strings.HasPrefix(raw, "/") {
		return true
	}
	target, err := url.Parse(raw)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return false
	}
	base, err := url.Parse(h.publicBaseURL)
	if err != nil {
		return false
	}
	return target.Scheme == base.Scheme && target.Host == base.Host
}

// GetStats handles GET /v1/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.auth.GetStats(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, stats)
}
