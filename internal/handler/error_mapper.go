package handler

import (
	"errors"
	"log/slog"

	"github.com/settleline/api/internal/model"
	"github.com/settleline/api/internal/service"
)

// MapServiceError converts a service error to an APIError response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error codes across the API.
func MapServiceError(err error) *model.APIError {
	if err == nil {
		return nil
	}

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewUnauthorizedError("invalid email or password")

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrNotAdmin):
		return model.NewForbiddenError("admin role required")
	case errors.Is(err, service.ErrPlanRequired):
		return model.NewPlanRequiredError()

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrCategoryNotFound):
		return model.NewNotFoundError("category")
	case errors.Is(err, service.ErrTaskNotFound):
		return model.NewNotFoundError("task")
	case errors.Is(err, service.ErrItemNotFound):
		return model.NewNotFoundError("item")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrEmailAlreadyExists):
		return model.NewConflictError("email already registered")
	case errors.Is(err, service.ErrLastCategory):
		return model.NewConflictError("the last category cannot be deleted")
	case errors.Is(err, service.ErrCategoryHasTasks):
		return model.NewConflictError("category still has active tasks")
	case errors.Is(err, service.ErrLastTask):
		return model.NewConflictError("the last task in a category cannot be deleted")

	// ===== Ceiling Errors → 400 with limit payload =====
	case errors.Is(err, service.ErrCategoryLimitReached):
		return model.NewLimitExceededError("categories", model.MaxCategories, model.MaxCategories)
	case errors.Is(err, service.ErrTaskLimitReached):
		return model.NewLimitExceededError("tasks per category", model.MaxTasksPerCategory, model.MaxTasksPerCategory)

	// ===== Validation Errors → 400 =====
	case errors.Is(err, service.ErrInvalidOrder):
		return model.NewValidationError([]model.FieldError{
			{Field: "order", Message: "order must be a positive integer"},
		})
	case errors.Is(err, service.ErrPasswordRequired):
		return model.NewValidationError([]model.FieldError{
			{Field: "password", Message: "password is required"},
		})
	case errors.Is(err, service.ErrPasswordTooShort):
		return model.NewValidationError([]model.FieldError{
			{Field: "password", Message: "password must be at least 8 characters"},
		})
	case errors.Is(err, service.ErrPasswordTooLong):
		return model.NewValidationError([]model.FieldError{
			{Field: "password", Message: "password must be at most 128 characters"},
		})
	case errors.Is(err, service.ErrInvalidEmail):
		return model.NewValidationError([]model.FieldError{
			{Field: "email", Message: "invalid email format"},
		})

	// ===== Default → 500 =====
	default:
		slog.Error("unhandled service error", "error", err)
		return model.NewInternalError("")
	}
}
