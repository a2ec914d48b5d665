package model

import "time"

// Field length limits for tasks
const (
	TaskTitleMaxLen = 150
	TaskDescMaxLen  = 5000

	LinkTitleMaxLen = 100
	LinkURLMaxLen   = 500
	LinkDescMaxLen  = 200

	// MaxTasksPerCategory is the ceiling on active tasks within one category.
	MaxTasksPerCategory = 12
)

// Duration bands for task effort estimates
type Duration string

const (
	DurationUnderHour Duration = "under_1_hour"
	DurationFewHours  Duration = "1_3_hours"
	DurationHalfDay   Duration = "half_day"
	DurationFullDay   Duration = "full_day"
	DurationMultiDay  Duration = "multi_day"
)

// IsValidDuration checks a duration band value
func IsValidDuration(d string) bool {
	switch Duration(d) {
	case DurationUnderHour, DurationFewHours, DurationHalfDay,
		DurationFullDay, DurationMultiDay:
		return true
	default:
		return false
	}
}

// Difficulty levels for tasks
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// IsValidDifficulty checks a difficulty value
func IsValidDifficulty(d string) bool {
	switch Difficulty(d) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// Link is an external or helpful resource attached to a task
type Link struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Validate checks a link's field lengths
func (l *Link) Validate(field string) []FieldError {
	var errs []FieldError
	if l.Title == "" {
		errs = append(errs, FieldError{Field: field, Message: "link title is required"})
	} else if len(l.Title) > LinkTitleMaxLen {
		errs = append(errs, FieldError{Field: field, Message: "link title exceeds maximum length"})
	}
	if l.URL == "" {
		errs = append(errs, FieldError{Field: field, Message: "link url is required"})
	} else if len(l.URL) > LinkURLMaxLen {
		errs = append(errs, FieldError{Field: field, Message: "link url exceeds maximum length"})
	}
	if len(l.Description) > LinkDescMaxLen {
		errs = append(errs, FieldError{Field: field, Message: "link description exceeds maximum length"})
	}
	return errs
}

// Task represents a checklist task owned by a category.
//
// Order values of active tasks form a dense 1..N sequence within the owning
// category between reorder operations.
type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	CategoryID    string     `json:"category_id"`
	Order         int        `json:"order"`
	Duration      Duration   `json:"duration"`
	Difficulty    Difficulty `json:"difficulty"`
	ExternalLinks []Link     `json:"external_links,omitempty"`
	HelpfulLinks  []Link     `json:"helpful_links,omitempty"`
	Tips          []string   `json:"tips,omitempty"`
	Requirements  []string   `json:"requirements,omitempty"`
	Active        bool       `json:"active"`
	CreatedOn     time.Time  `json:"created_on"`
	UpdatedOn     time.Time  `json:"updated_on"`
}

// CreateTaskRequest represents a task creation payload
type CreateTaskRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	CategoryID    string   `json:"category_id"`
	Duration      string   `json:"duration"`
	Difficulty    string   `json:"difficulty"`
	ExternalLinks []Link   `json:"external_links,omitempty"`
	HelpfulLinks  []Link   `json:"helpful_links,omitempty"`
	Tips          []string `json:"tips,omitempty"`
	Requirements  []string `json:"requirements,omitempty"`
}

// Validate checks the creation payload and returns field-level errors
func (r *CreateTaskRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	} else if len(r.Title) > TaskTitleMaxLen {
		errs = append(errs, FieldError{Field: "title", Message: "title exceeds maximum length"})
	}
	if r.Description == "" {
		errs = append(errs, FieldError{Field: "description", Message: "description is required"})
	} else if len(r.Description) > TaskDescMaxLen {
		errs = append(errs, FieldError{Field: "description", Message: "description exceeds maximum length"})
	}
	if r.CategoryID == "" {
		errs = append(errs, FieldError{Field: "category_id", Message: "category_id is required"})
	}
	if r.Duration == "" {
		errs = append(errs, FieldError{Field: "duration", Message: "duration is required"})
	} else if !IsValidDuration(r.Duration) {
		errs = append(errs, FieldError{Field: "duration", Message: "invalid duration band"})
	}
	if r.Difficulty == "" {
		errs = append(errs, FieldError{Field: "difficulty", Message: "difficulty is required"})
	} else if !IsValidDifficulty(r.Difficulty) {
		errs = append(errs, FieldError{Field: "difficulty", Message: "invalid difficulty"})
	}
	for i := range r.ExternalLinks {
		errs = append(errs, r.ExternalLinks[i].Validate("external_links")...)
	}
	for i := range r.HelpfulLinks {
		errs = append(errs, r.HelpfulLinks[i].Validate("helpful_links")...)
	}
	return errs
}

// UpdateTaskRequest represents a task update; nil fields are untouched.
// Retitling never changes identity — tasks are keyed by database record id.
type UpdateTaskRequest struct {
	Title         *string   `json:"title,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Duration      *string   `json:"duration,omitempty"`
	Difficulty    *string   `json:"difficulty,omitempty"`
	ExternalLinks *[]Link   `json:"external_links,omitempty"`
	HelpfulLinks  *[]Link   `json:"helpful_links,omitempty"`
	Tips          *[]string `json:"tips,omitempty"`
	Requirements  *[]string `json:"requirements,omitempty"`
}

// Validate checks the update payload
func (r *UpdateTaskRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Title != nil {
		if *r.Title == "" {
			errs = append(errs, FieldError{Field: "title", Message: "title cannot be empty"})
		} else if len(*r.Title) > TaskTitleMaxLen {
			errs = append(errs, FieldError{Field: "title", Message: "title exceeds maximum length"})
		}
	}
	if r.Description != nil {
		if *r.Description == "" {
			errs = append(errs, FieldError{Field: "description", Message: "description cannot be empty"})
		} else if len(*r.Description) > TaskDescMaxLen {
			errs = append(errs, FieldError{Field: "description", Message: "description exceeds maximum length"})
		}
	}
	if r.Duration != nil && !IsValidDuration(*r.Duration) {
		errs = append(errs, FieldError{Field: "duration", Message: "invalid duration band"})
	}
	if r.Difficulty != nil && !IsValidDifficulty(*r.Difficulty) {
		errs = append(errs, FieldError{Field: "difficulty", Message: "invalid difficulty"})
	}
	if r.ExternalLinks != nil {
		for i := range *r.ExternalLinks {
			errs = append(errs, (*r.ExternalLinks)[i].Validate("external_links")...)
		}
	}
	if r.HelpfulLinks != nil {
		for i := range *r.HelpfulLinks {
			errs = append(errs, (*r.HelpfulLinks)[i].Validate("helpful_links")...)
		}
	}
	return errs
}
