package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 128 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
)

// ===== Category Errors =====
var (
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryLimitReached = errors.New("maximum number of categories reached")
	ErrLastCategory         = errors.New("cannot delete the last active category")
	ErrCategoryHasTasks     = errors.New("category still has active tasks")
)

// ===== Task Errors =====
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrTaskLimitReached = errors.New("maximum number of tasks in category reached")
	ErrLastTask         = errors.New("cannot delete the last active task in its category")
)

// ===== Ordering Errors =====
var (
	ErrInvalidOrder = errors.New("order must be at least 1")
	ErrItemNotFound = errors.New("item not found in scope")
)

// ===== Progress Errors =====
var (
	ErrPlanRequired = errors.New("an active paid plan is required")
)

// ===== Admin Errors =====
var (
	ErrNotAdmin = errors.New("admin role required")
)
