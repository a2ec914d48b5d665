package service

import (
	"context"

	"github.com/settleline/api/internal/model"
)

// CategoryRepository defines the interface for category storage
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id string) (*model.Category, error)
	ListActive(ctx context.Context) ([]*model.Category, error)
	CountActive(ctx context.Context) (int, error)
	MaxOrder(ctx context.Context) (int, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, id string) error
	BulkUpdateOrders(ctx context.Context, pairs []model.OrderPair) error
}

// Notifier is the side-channel hook curation services fire after successful
// mutations. Implementations must never block or fail the caller.
type Notifier interface {
	NotifyAsync(change EntityChange)
}

// CategoryService handles category curation
type CategoryService struct {
	categoryRepo CategoryRepository
	taskRepo     TaskRepository
	notifier     Notifier
}

// CategoryServiceConfig holds configuration for the category service
type CategoryServiceConfig struct {
	CategoryRepo CategoryRepository
	TaskRepo     TaskRepository
	Notifier     Notifier
}

// NewCategoryService creates a new category service
func NewCategoryService(cfg CategoryServiceConfig) *CategoryService {
	return &CategoryService{
		categoryRepo: cfg.CategoryRepo,
		taskRepo:     cfg.TaskRepo,
		notifier:     cfg.Notifier,
	}
}

// ListCategories retrieves all active categories in display order
func (s *CategoryService) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.categoryRepo.ListActive(ctx)
}

// GetCategory retrieves one active category
func (s *CategoryService) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil || !category.Active {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// CreateCategory creates a new category at the end of the display order
func (s *CategoryService) CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	count, err := s.categoryRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	if count >= model.MaxCategories {
		return nil, ErrCategoryLimitReached
	}

	maxOrder, err := s.categoryRepo.MaxOrder(ctx)
	if err != nil {
		return nil, err
	}

	color := req.Color
	if color == "" {
		color = model.DefaultCategoryColor
	}

	category := &model.Category{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       color,
		Order:       nextOrder(maxOrder),
		TimeFrame:   model.TimeFrame(req.TimeFrame),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyAsync(EntityChange{
			EntityType: "category",
			EntityID:   category.ID,
			EntityName: category.Name,
			Action:     model.EntityActionCreated,
		})
	}
	return category, nil
}

// UpdateCategory applies a partial update. Renames never change identity;
// records are keyed by id, so no cascade to tasks or progress is needed.
func (s *CategoryService) UpdateCategory(ctx context.Context, id string, req *model.UpdateCategoryRequest) (*model.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	var changed []string

	if req.Name != nil && *req.Name != category.Name {
		updates["name"] = *req.Name
		changed = append(changed, "name")
	}
	if req.Description != nil && *req.Description != category.Description {
		updates["description"] = *req.Description
		changed = append(changed, "description")
	}
	if req.Icon != nil && *req.Icon != category.Icon {
		updates["icon"] = *req.Icon
		changed = append(changed, "icon")
	}
	if req.Color != nil && *req.Color != category.Color {
		updates["color"] = *req.Color
		changed = append(changed, "color")
	}
	if req.TimeFrame != nil && model.TimeFrame(*req.TimeFrame) != category.TimeFrame {
		updates["time_frame"] = *req.TimeFrame
		changed = append(changed, "time_frame")
	}

	if len(updates) == 0 {
		return category, nil
	}

	if err := s.categoryRepo.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	updated, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyAsync(EntityChange{
			EntityType:    "category",
			EntityID:      id,
			EntityName:    updated.Name,
			Action:        model.EntityActionUpdated,
			ChangedFields: changed,
		})
	}
	return updated, nil
}

// DeleteCategory soft-deletes a category. The last active category cannot be
// removed, and a category that still owns active tasks blocks deletion
// outright rather than cascading.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.categoryRepo.CountActive(ctx)
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastCategory
	}

	taskCount, err := s.taskRepo.CountActiveInCategory(ctx, id)
	if err != nil {
		return err
	}
	if taskCount > 0 {
		return ErrCategoryHasTasks
	}

	if err := s.categoryRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	// Close the gap the deletion left so active orders stay dense.
	if err := s.compactOrders(ctx); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyAsync(EntityChange{
			EntityType: "category",
			EntityID:   id,
			EntityName: category.Name,
			Action:     model.EntityActionDeleted,
		})
	}
	return nil
}

// ReorderCategory moves one category to a new display position. The final
// permutation is computed before anything is written and lands as a single
// bulk update; no intermediate shifted state is ever visible.
func (s *CategoryService) ReorderCategory(ctx context.Context, id string, newOrder int) ([]*model.Category, error) {
	categories, err := s.categoryRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]orderItem, len(categories))
	for i, c := range categories {
		items[i] = orderItem{ID: c.ID, Order: c.Order}
	}

	pairs, err := planMove(items, id, newOrder)
	if err != nil {
		if err == ErrItemNotFound {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	if len(pairs) == 0 {
		return categories, nil
	}

	if err := s.categoryRepo.BulkUpdateOrders(ctx, pairs); err != nil {
		return nil, err
	}

	s.notifyReordered(id)
	return s.categoryRepo.ListActive(ctx)
}

// ReorderCategories writes caller-computed final order values in one bulk
// update. The pairs are trusted to be a self-consistent permutation; this is
// the drag-and-drop path.
func (s *CategoryService) ReorderCategories(ctx context.Context, pairs []model.OrderPair) ([]*model.Category, error) {
	if err := s.categoryRepo.BulkUpdateOrders(ctx, pairs); err != nil {
		return nil, err
	}

	s.notifyReordered("")
	return s.categoryRepo.ListActive(ctx)
}

// compactOrders renumbers active categories to 1..N preserving relative order
func (s *CategoryService) compactOrders(ctx context.Context) error {
	categories, err := s.categoryRepo.ListActive(ctx)
	if err != nil {
		return err
	}

	var pairs []model.OrderPair
	for i, c := range categories {
		if c.Order != i+1 {
			pairs = append(pairs, model.OrderPair{ID: c.ID, Order: i + 1})
		}
	}
	if len(pairs) == 0 {
		return nil
	}
	return s.categoryRepo.BulkUpdateOrders(ctx, pairs)
}

func (s *CategoryService) notifyReordered(id string) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyAsync(EntityChange{
		EntityType: "category",
		EntityID:   id,
		Action:     model.EntityActionReordered,
	})
}
