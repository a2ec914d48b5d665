package model

import (
	"regexp"
	"time"
)

// Field length limits for categories
const (
	CategoryNameMaxLen = 100
	CategoryDescMaxLen = 500

	// MaxCategories is the ceiling on concurrently active categories.
	MaxCategories = 6
)

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#3B82F6"

// TimeFrame labels the relocation phase a category belongs to
type TimeFrame string

const (
	TimeFrameBeforeMove   TimeFrame = "before_move"
	TimeFrameFirstWeek    TimeFrame = "first_week"
	TimeFrameFirstMonth   TimeFrame = "first_month"
	TimeFrameFirstQuarter TimeFrame = "first_three_months"
	TimeFrameOngoing      TimeFrame = "ongoing"
)

// IsValidTimeFrame checks a time frame value
func IsValidTimeFrame(tf string) bool {
	switch TimeFrame(tf) {
	case TimeFrameBeforeMove, TimeFrameFirstWeek, TimeFrameFirstMonth,
		TimeFrameFirstQuarter, TimeFrameOngoing:
		return true
	default:
		return false
	}
}

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Category represents a checklist category.
//
// Order values of active categories form a dense 1..N sequence with no gaps
// or duplicates between reorder operations.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Color       string    `json:"color"`
	Order       int       `json:"order"`
	TimeFrame   TimeFrame `json:"time_frame"`
	Active      bool      `json:"active"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// CreateCategoryRequest represents a category creation payload
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	TimeFrame   string `json:"time_frame"`
}

// Validate checks the creation payload and returns field-level errors
func (r *CreateCategoryRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	} else if len(r.Name) > CategoryNameMaxLen {
		errs = append(errs, FieldError{Field: "name", Message: "name exceeds maximum length"})
	}
	if len(r.Description) > CategoryDescMaxLen {
		errs = append(errs, FieldError{Field: "description", Message: "description exceeds maximum length"})
	}
	if r.Color != "" && !hexColorPattern.MatchString(r.Color) {
		errs = append(errs, FieldError{Field: "color", Message: "color must be a hex string like #3B82F6"})
	}
	if r.TimeFrame == "" {
		errs = append(errs, FieldError{Field: "time_frame", Message: "time_frame is required"})
	} else if !IsValidTimeFrame(r.TimeFrame) {
		errs = append(errs, FieldError{Field: "time_frame", Message: "invalid time frame"})
	}
	return errs
}

// UpdateCategoryRequest represents a category update; nil fields are untouched.
// Renames never change identity — categories are keyed by database record id.
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Color       *string `json:"color,omitempty"`
	TimeFrame   *string `json:"time_frame,omitempty"`
}

// Validate checks the update payload
func (r *UpdateCategoryRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name != nil {
		if *r.Name == "" {
			errs = append(errs, FieldError{Field: "name", Message: "name cannot be empty"})
		} else if len(*r.Name) > CategoryNameMaxLen {
			errs = append(errs, FieldError{Field: "name", Message: "name exceeds maximum length"})
		}
	}
	if r.Description != nil && len(*r.Description) > CategoryDescMaxLen {
		errs = append(errs, FieldError{Field: "description", Message: "description exceeds maximum length"})
	}
	if r.Color != nil && !hexColorPattern.MatchString(*r.Color) {
		errs = append(errs, FieldError{Field: "color", Message: "color must be a hex string like #3B82F6"})
	}
	if r.TimeFrame != nil && !IsValidTimeFrame(*r.TimeFrame) {
		errs = append(errs, FieldError{Field: "time_frame", Message: "invalid time frame"})
	}
	return errs
}

// ReorderRequest moves a single item to a new position within its scope
type ReorderRequest struct {
	Order int `json:"order"`
}

// OrderPair assigns a final order value to an item in a batch reorder
type OrderPair struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// BatchReorderRequest submits caller-computed final order values.
// The server trusts the pairs to be self-consistent; this is the preferred
// drag-and-drop path because it is written as one bulk operation.
type BatchReorderRequest struct {
	Items []OrderPair `json:"items"`
}

// Validate checks the batch payload shape
func (r *BatchReorderRequest) Validate() []FieldError {
	var errs []FieldError
	if len(r.Items) == 0 {
		errs = append(errs, FieldError{Field: "items", Message: "items must not be empty"})
	}
	for _, p := range r.Items {
		if p.ID == "" {
			errs = append(errs, FieldError{Field: "items", Message: "every item needs an id"})
			break
		}
		if p.Order < 1 {
			errs = append(errs, FieldError{Field: "items", Message: "order values must be positive"})
			break
		}
	}
	return errs
}
