package model

import "time"

// CompletedTask records a single task completion
type CompletedTask struct {
	TaskID      string    `json:"task_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// UserProgress is the denormalized per-user progress record. One record per
// user; recomputed in full on every task-state change rather than updated
// incrementally, so it can never drift from the underlying completion list.
//
// Invariants after any recomputation:
//   - OverallProgress = round(100 * completedActive / totalActive), 0 when
//     there are no active tasks.
//   - CategoryProgress[c] = round(100 * completedInC / totalInC) for every
//     active category c, 0 when the category has no active tasks.
//   - The key set of CategoryProgress equals the active-category id set;
//     keys of deleted categories are pruned.
type UserProgress struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	OverallProgress  int             `json:"overall_progress"`
	CategoryProgress map[string]int  `json:"category_progress"`
	CompletedTasks   []CompletedTask `json:"completed_tasks"`
	CreatedOn        time.Time       `json:"created_on"`
	UpdatedOn        time.Time       `json:"updated_on"`
}

// IsCompleted reports whether the given task is in the completion list.
func (p *UserProgress) IsCompleted(taskID string) bool {
	for _, ct := range p.CompletedTasks {
		if ct.TaskID == taskID {
			return true
		}
	}
	return false
}

// ToggleProgressRequest toggles a task's completion state for the caller
type ToggleProgressRequest struct {
	TaskID    string `json:"taskId"`
	Completed bool   `json:"completed"`
}

// Validate checks the toggle payload
func (r *ToggleProgressRequest) Validate() []FieldError {
	var errs []FieldError
	if r.TaskID == "" {
		errs = append(errs, FieldError{Field: "taskId", Message: "taskId is required"})
	}
	return errs
}
