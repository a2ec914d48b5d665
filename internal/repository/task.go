package repository

import (
	"context"
	"errors"

	"github.com/settleline/api/internal/database"
	"github.com/settleline/api/internal/model"
)

// TaskRepository handles task data access. Like categories, the ordering key
// is stored as `position`.
type TaskRepository struct {
	db database.Database
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db database.Database) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create creates a new task
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	query := `
		CREATE task CONTENT {
			title: $title,
			description: $description,
			category_id: $category_id,
			position: $position,
			duration: $duration,
			difficulty: $difficulty,
			external_links: $external_links,
			helpful_links: $helpful_links,
			tips: $tips,
			requirements: $requirements,
			active: true,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"title":          task.Title,
		"description":    task.Description,
		"category_id":    task.CategoryID,
		"position":       task.Order,
		"duration":       string(task.Duration),
		"difficulty":     string(task.Difficulty),
		"external_links": linksToMaps(task.ExternalLinks),
		"helpful_links":  linksToMaps(task.HelpfulLinks),
		"tips":           task.Tips,
		"requirements":   task.Requirements,
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

	task.ID = extractRecordID(created["id"])
	task.Active = true
	task.CreatedOn = getTime(created, "created_on")
	task.UpdatedOn = getTime(created, "updated_on")
	return nil
}

// GetByID retrieves a task by ID; returns nil when missing
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*model.Task, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseTaskResult(result)
}

// ListActive retrieves all active tasks ordered by category then position
func (r *TaskRepository) ListActive(ctx context.Context) ([]*model.Task, error) {
	query := `SELECT * FROM task WHERE active = true ORDER BY category_id, position`

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	return parseTasksResult(result)
}

// ListActiveByCategory retrieves a category's active tasks sorted by position
func (r *TaskRepository) ListActiveByCategory(ctx context.Context, categoryID string) ([]*model.Task, error) {
	query := `SELECT * FROM task WHERE active = true AND category_id = $category_id ORDER BY position`
	vars := map[string]interface{}{"category_id": categoryID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseTasksResult(result)
}

// CountActiveInCategory returns the number of active tasks in a category
func (r *TaskRepository) CountActiveInCategory(ctx context.Context, categoryID string) (int, error) {
	query := `SELECT count() AS count FROM task WHERE active = true AND category_id = $category_id GROUP ALL`
	vars := map[string]interface{}{"category_id": categoryID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	if m, ok := result.(map[string]interface{}); ok {
		return getInt(m, "count"), nil
	}
	return extractCount(result), nil
}

// MaxOrderInCategory returns the highest position among a category's active
// tasks, 0 when the category has none
func (r *TaskRepository) MaxOrderInCategory(ctx context.Context, categoryID string) (int, error) {
	query := `SELECT math::max(position) AS max_position FROM task WHERE active = true AND category_id = $category_id GROUP ALL`
	vars := map[string]interface{}{"category_id": categoryID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	if m, ok := result.(map[string]interface{}); ok {
		return getInt(m, "max_position"), nil
	}
	return 0, nil
}

// Update applies the given field updates to a task
func (r *TaskRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	query := `UPDATE type::record($id) SET `
	vars := map[string]interface{}{"id": id}

	first := true
	for field, value := range updates {
		if !first {
			query += ", "
		}
		query += field + " = $" + field
		vars[field] = value
		first = false
	}
	query += `, updated_on = time::now()`

	return r.db.Execute(ctx, query, vars)
}

// SoftDelete marks a task inactive
func (r *TaskRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE type::record($id) SET active = false, updated_on = time::now()`
	vars := map[string]interface{}{"id": id}

	return r.db.Execute(ctx, query, vars)
}

// BulkUpdateOrders writes a set of final position values in one transaction
func (r *TaskRepository) BulkUpdateOrders(ctx context.Context, pairs []model.OrderPair) error {
	if len(pairs) == 0 {
		return nil
	}

	batch := database.NewAtomicBatch()
	for _, p := range pairs {
		batch.Add(
			`UPDATE type::record($id) SET position = $position, updated_on = time::now()`,
			map[string]interface{}{"id": p.ID, "position": p.Order},
		)
	}
	return batch.Execute(ctx, r.db)
}

// parseTaskResult parses a single task record
func parseTaskResult(result interface{}) (*model.Task, error) {
	m, ok := result.(map[string]interface{})
	if !ok {
		return nil, database.ErrQuery
	}
	return taskFromMap(m), nil
}

// parseTasksResult parses a task list response
func parseTasksResult(result interface{}) ([]*model.Task, error) {
	records, ok := extractQueryResults(result)
	if !ok {
		return []*model.Task{}, nil
	}

	tasks := make([]*model.Task, 0, len(records))
	for _, rec := range records {
		if m, ok := rec.(map[string]interface{}); ok {
			tasks = append(tasks, taskFromMap(m))
		}
	}
	return tasks, nil
}

func taskFromMap(m map[string]interface{}) *model.Task {
	return &model.Task{
		ID:            extractRecordID(m["id"]),
		Title:         getString(m, "title"),
		Description:   getString(m, "description"),
		CategoryID:    extractRecordID(m["category_id"]),
		Order:         getInt(m, "position"),
		Duration:      model.Duration(getString(m, "duration")),
		Difficulty:    model.Difficulty(getString(m, "difficulty")),
		ExternalLinks: linksFromValue(m["external_links"]),
		HelpfulLinks:  linksFromValue(m["helpful_links"]),
		Tips:          getStringSlice(m, "tips"),
		Requirements:  getStringSlice(m, "requirements"),
		Active:        getBool(m, "active"),
		CreatedOn:     getTime(m, "created_on"),
		UpdatedOn:     getTime(m, "updated_on"),
	}
}

// linksToMaps converts links for CONTENT clauses
func linksToMaps(links []model.Link) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(links))
	for _, l := range links {
		out = append(out, map[string]interface{}{
			"title":       l.Title,
			"url":         l.URL,
			"description": l.Description,
		})
	}
	return out
}

// linksFromValue parses a link list out of a query result value
func linksFromValue(v interface{}) []model.Link {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	links := make([]model.Link, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			links = append(links, model.Link{
				Title:       getString(m, "title"),
				URL:         getString(m, "url"),
				Description: getString(m, "description"),
			})
		}
	}
	return links
}
