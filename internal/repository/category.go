package repository

import (
	"context"
	"errors"

	"github.com/settleline/api/internal/database"
	"github.com/settleline/api/internal/model"
)

// CategoryRepository handles category data access.
//
// The ordering key is stored as `position` because `order` collides with the
// SurrealQL ORDER keyword; the API and model still call it order.
type CategoryRepository struct {
	db database.Database
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db database.Database) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	query := `
		CREATE category CONTENT {
			name: $name,
			description: $description,
			icon: $icon,
			color: $color,
			position: $position,
			time_frame: $time_frame,
			active: true,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"name":        category.Name,
		"description": category.Description,
		"icon":        category.Icon,
		"color":       category.Color,
		"position":    category.Order,
		"time_frame":  string(category.TimeFrame),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return database.ErrDuplicate
		}
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

	category.ID = extractRecordID(created["id"])
	category.Active = true
	category.CreatedOn = getTime(created, "created_on")
	category.UpdatedOn = getTime(created, "updated_on")
	return nil
}

// GetByID retrieves a category by ID; returns nil when missing
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseCategoryResult(result)
}

// ListActive retrieves all active categories sorted by position
func (r *CategoryRepository) ListActive(ctx context.Context) ([]*model.Category, error) {
	query := `SELECT * FROM category WHERE active = true ORDER BY position`

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	return parseCategoriesResult(result)
}

// CountActive returns the number of active categories
func (r *CategoryRepository) CountActive(ctx context.Context) (int, error) {
	query := `SELECT count() AS count FROM category WHERE active = true GROUP ALL`

	result, err := r.db.QueryOne(ctx, query, nil)
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

// MaxOrder returns the highest position among active categories, 0 when none
func (r *CategoryRepository) MaxOrder(ctx context.Context) (int, error) {
	query := `SELECT math::max(position) AS max_position FROM category WHERE active = true GROUP ALL`

	result, err := r.db.QueryOne(ctx, query, nil)
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

// Update applies the given field updates to a category
func (r *CategoryRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
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

// SoftDelete marks a category inactive
func (r *CategoryRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE type::record($id) SET active = false, updated_on = time::now()`
	vars := map[string]interface{}{"id": id}

	return r.db.Execute(ctx, query, vars)
}

// BulkUpdateOrders writes a set of final position values in one transaction.
// This is the only write path for reordering; single-item moves are computed
// up front by the service and submitted here as a complete permutation.
func (r *CategoryRepository) BulkUpdateOrders(ctx context.Context, pairs []model.OrderPair) error {
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

// parseCategoryResult parses a single category record
func parseCategoryResult(result interface{}) (*model.Category, error) {
	m, ok := result.(map[string]interface{})
	if !ok {
		return nil, database.ErrQuery
	}
	return categoryFromMap(m), nil
}

// parseCategoriesResult parses a category list response
func parseCategoriesResult(result interface{}) ([]*model.Category, error) {
	records, ok := extractQueryResults(result)
	if !ok {
		return []*model.Category{}, nil
	}

	categories := make([]*model.Category, 0, len(records))
	for _, rec := range records {
		if m, ok := rec.(map[string]interface{}); ok {
			categories = append(categories, categoryFromMap(m))
		}
	}
	return categories, nil
}

func categoryFromMap(m map[string]interface{}) *model.Category {
	return &model.Category{
		ID:          extractRecordID(m["id"]),
		Name:        getString(m, "name"),
		Description: getString(m, "description"),
		Icon:        getString(m, "icon"),
		Color:       getString(m, "color"),
		Order:       getInt(m, "position"),
		TimeFrame:   model.TimeFrame(getString(m, "time_frame")),
		Active:      getBool(m, "active"),
		CreatedOn:   getTime(m, "created_on"),
		UpdatedOn:   getTime(m, "updated_on"),
	}
}
