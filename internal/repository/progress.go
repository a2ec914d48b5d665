package repository

import (
	"context"
	"errors"

	"github.com/settleline/api/internal/database"
	"github.com/settleline/api/internal/model"
)

// ProgressRepository handles user progress data access
type ProgressRepository struct {
	db database.Database
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db database.Database) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetByUserID retrieves the progress record for a user; returns nil when the
// user has none yet
func (r *ProgressRepository) GetByUserID(ctx context.Context, userID string) (*model.UserProgress, error) {
	query := `SELECT * FROM user_progress WHERE user_id = $user_id LIMIT 1`
	vars := map[string]interface{}{"user_id": userID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseProgressResult(result)
}

// Create creates a fresh progress record for a user
func (r *ProgressRepository) Create(ctx context.Context, progress *model.UserProgress) error {
	query := `
		CREATE user_progress CONTENT {
			user_id: $user_id,
			overall_progress: $overall_progress,
			category_progress: $category_progress,
			completed_tasks: $completed_tasks,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"user_id":           progress.UserID,
		"overall_progress":  progress.OverallProgress,
		"category_progress": intMapToMap(progress.CategoryProgress),
		"completed_tasks":   completedTasksToMaps(progress.CompletedTasks),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	records, ok := extractQueryResults(result)
	if !ok || len(records) == 0 {
		return database.ErrQuery
	}
	created, ok := records[0].(map[string]interface{})
	if !ok {
		return database.ErrQuery
	}

	progress.ID = extractRecordID(created["id"])
	progress.CreatedOn = getTime(created, "created_on")
	progress.UpdatedOn = getTime(created, "updated_on")
	return nil
}

// Save overwrites the denormalized fields of a progress record. The record is
// recomputed in full by the service, so this is always a whole-value write.
func (r *ProgressRepository) Save(ctx context.Context, progress *model.UserProgress) error {
	query := `
		UPDATE type::record($id) SET
			overall_progress = $overall_progress,
			category_progress = $category_progress,
			completed_tasks = $completed_tasks,
			updated_on = time::now()
	`

	vars := map[string]interface{}{
		"id":                progress.ID,
		"overall_progress":  progress.OverallProgress,
		"category_progress": intMapToMap(progress.CategoryProgress),
		"completed_tasks":   completedTasksToMaps(progress.CompletedTasks),
	}

	return r.db.Execute(ctx, query, vars)
}

// parseProgressResult parses a single progress record
func parseProgressResult(result interface{}) (*model.UserProgress, error) {
	m, ok := result.(map[string]interface{})
	if !ok {
		return nil, database.ErrQuery
	}
	return progressFromMap(m), nil
}

func progressFromMap(m map[string]interface{}) *model.UserProgress {
	return &model.UserProgress{
		ID:               extractRecordID(m["id"]),
		UserID:           extractRecordID(m["user_id"]),
		OverallProgress:  getInt(m, "overall_progress"),
		CategoryProgress: getIntMap(m, "category_progress"),
		CompletedTasks:   completedTasksFromValue(m["completed_tasks"]),
		CreatedOn:        getTime(m, "created_on"),
		UpdatedOn:        getTime(m, "updated_on"),
	}
}

// intMapToMap widens a string-to-int map for query variables
func intMapToMap(m map[string]int) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// completedTasksToMaps converts completions for CONTENT clauses
func completedTasksToMaps(tasks []model.CompletedTask) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(tasks))
	for _, ct := range tasks {
		out = append(out, map[string]interface{}{
			"task_id":      ct.TaskID,
			"completed_at": ct.CompletedAt,
		})
	}
	return out
}

// completedTasksFromValue parses the completion list out of a result value
func completedTasksFromValue(v interface{}) []model.CompletedTask {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	tasks := make([]model.CompletedTask, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			tasks = append(tasks, model.CompletedTask{
				TaskID:      extractRecordID(m["task_id"]),
				CompletedAt: getTime(m, "completed_at"),
			})
		}
	}
	return tasks
}
