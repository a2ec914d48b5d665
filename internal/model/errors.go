package model

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorCode represents API error codes
type ErrorCode int

const (
	// Authentication errors (1xxx)
	ErrCodeUnauthorized ErrorCode = 1001
	ErrCodeTokenExpired ErrorCode = 1002
	ErrCodeTokenInvalid ErrorCode = 1003
	ErrCodeLoginFailed  ErrorCode = 1004

	// Authorization errors (2xxx)
	ErrCodeForbidden    ErrorCode = 2001
	ErrCodePlanRequired ErrorCode = 2002

	// Resource errors (3xxx)
	ErrCodeNotFound      ErrorCode = 3001
	ErrCodeAlreadyExists ErrorCode = 3002
	ErrCodeConflict      ErrorCode = 3003

	// Validation errors (4xxx)
	ErrCodeValidation    ErrorCode = 4001
	ErrCodeInvalidInput  ErrorCode = 4002
	ErrCodeLimitExceeded ErrorCode = 4003

	// Throttling errors (5xxx)
	ErrCodeRateLimited ErrorCode = 5001

	// Internal errors (9xxx)
	ErrCodeInternal ErrorCode = 9001
)

// APIError is the error payload carried inside the response envelope.
// All client-visible failures go through one of the constructors below so
// codes and status mappings stay consistent across handlers.
type APIError struct {
	Code    ErrorCode    `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	// Extension fields
	Limit            *int `json:"limit,omitempty"`
	Current          *int `json:"current,omitempty"`
	RequiresPaidPlan bool `json:"requiresPaidPlan,omitempty"`
	RetryAfter       int  `json:"retryAfter,omitempty"`

	// HTTP status for this error; not serialized.
	Status int `json:"-"`
}

// FieldError represents a validation error on a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("[%d] %s", e.Status, e.Message)
}

// WriteJSON writes the error wrapped in the standard response envelope.
func (e *APIError) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   e,
	})
}

// Common error constructors

func NewUnauthorizedError(message string) *APIError {
	return &APIError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string) *APIError {
	return &APIError{
		Code:    ErrCodeForbidden,
		Message: message,
		Status:  http.StatusForbidden,
	}
}

// NewPlanRequiredError carries a machine-readable flag so clients can route
// to the upgrade flow instead of a generic error page.
func NewPlanRequiredError() *APIError {
	return &APIError{
		Code:             ErrCodePlanRequired,
		Message:          "an active paid plan is required for this action",
		Status:           http.StatusForbidden,
		RequiresPaidPlan: true,
	}
}

func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
	}
}

func NewValidationError(errors []FieldError) *APIError {
	message := "one or more fields failed validation"
	if len(errors) > 0 {
		message = fmt.Sprintf("%s: %s", errors[0].Field, errors[0].Message)
		if len(errors) > 1 {
			message = fmt.Sprintf("%s (and %d more errors)", message, len(errors)-1)
		}
	}
	return &APIError{
		Code:    ErrCodeValidation,
		Message: message,
		Status:  http.StatusBadRequest,
		Errors:  errors,
	}
}

func NewLimitExceededError(resource string, limit, current int) *APIError {
	return &APIError{
		Code:    ErrCodeLimitExceeded,
		Message: fmt.Sprintf("maximum of %d %s reached", limit, resource),
		Status:  http.StatusBadRequest,
		Limit:   &limit,
		Current: &current,
	}
}

func NewConflictError(message string) *APIError {
	return &APIError{
		Code:    ErrCodeConflict,
		Message: message,
		Status:  http.StatusConflict,
	}
}

func NewBadRequestError(message string) *APIError {
	return &APIError{
		Code:    ErrCodeInvalidInput,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

func NewRateLimitError(retryAfter int) *APIError {
	return &APIError{
		Code:       ErrCodeRateLimited,
		Message:    fmt.Sprintf("rate limit exceeded, retry after %d seconds", retryAfter),
		Status:     http.StatusTooManyRequests,
		RetryAfter: retryAfter,
	}
}

func NewInternalError(message string) *APIError {
	if message == "" {
		message = "an unexpected error occurred"
	}
	return &APIError{
		Code:    ErrCodeInternal,
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}
