package handler

import (
	"net/http"

	"github.com/settleline/api/internal/model"
	"github.com/settleline/api/internal/service"
)

// TaskHandler handles task curation and listing endpoints
type TaskHandler struct {
	svc *service.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// List handles GET /v1/tasks, optionally filtered by ?category=
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	categoryID := r.URL.Query().Get("category")

	tasks, err := h.svc.ListTasks(r.Context(), categoryID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, tasks)
}

// Get handles GET /v1/tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("task ID required"))
		return
	}

	task, err := h.svc.GetTask(r.Context(), id)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, task)
}

// Create handles POST /v1/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	task, err := h.svc.CreateTask(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, task)
}

// Update handles PATCH /v1/tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("task ID required"))
		return
	}

	var req model.UpdateTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	task, err := h.svc.UpdateTask(r.Context(), id, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, task)
}

// Delete handles DELETE /v1/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("task ID required"))
		return
	}

	if err := h.svc.DeleteTask(r.Context(), id); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// Reorder handles PATCH /v1/tasks/{id}/order
func (h *TaskHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, model.NewBadRequestError("task ID required"))
		return
	}

	var req model.ReorderRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	tasks, err := h.svc.ReorderTask(r.Context(), id, req.Order)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, tasks)
}

// BatchReorderTasksRequest scopes a batch reorder to one category
type BatchReorderTasksRequest struct {
	CategoryID string            `json:"category_id"`
	Items      []model.OrderPair `json:"items"`
}

// BatchReorder handles PATCH /v1/tasks/reorder
func (h *TaskHandler) BatchReorder(w http.ResponseWriter, r *http.Request) {
	var req BatchReorderTasksRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if req.CategoryID == "" {
		WriteError(w, model.NewValidationError([]model.FieldError{
			{Field: "category_id", Message: "category_id is required"},
		}))
		return
	}
	batch := model.BatchReorderRequest{Items: req.Items}
	if errs := batch.Validate(); len(errs) > 0 {
		WriteError(w, model.NewValidationError(errs))
		return
	}

	tasks, err := h.svc.ReorderTasks(r.Context(), req.CategoryID, req.Items)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, tasks)
}
