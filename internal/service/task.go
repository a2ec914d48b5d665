package service

import (
	"context"

	"github.com/settleline/api/internal/model"
)

// TaskRepository defines the interface for task storage
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id string) (*model.Task, error)
	ListActive(ctx context.Context) ([]*model.Task, error)
	ListActiveByCategory(ctx context.Context, categoryID string) ([]*model.Task, error)
	CountActiveInCategory(ctx context.Context, categoryID string) (int, error)
	MaxOrderInCategory(ctx context.Context, categoryID string) (int, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, id string) error
	BulkUpdateOrders(ctx context.Context, pairs []model.OrderPair) error
}

// TaskService handles task curation
type TaskService struct {
	taskRepo     TaskRepository
	categoryRepo CategoryRepository
	notifier     Notifier
}

// TaskServiceConfig holds configuration for the task service
type TaskServiceConfig struct {
	TaskRepo     TaskRepository
	CategoryRepo CategoryRepository
	Notifier     Notifier
}

// NewTaskService creates a new task service
func NewTaskService(cfg TaskServiceConfig) *TaskService {
	return &TaskService{
		taskRepo:     cfg.TaskRepo,
		categoryRepo: cfg.CategoryRepo,
		notifier:     cfg.Notifier,
	}
}

// ListTasks retrieves all active tasks, optionally scoped to one category
func (s *TaskService) ListTasks(ctx context.Context, categoryID string) ([]*model.Task, error) {
	if categoryID != "" {
		return s.taskRepo.ListActiveByCategory(ctx, categoryID)
	}
	return s.taskRepo.ListActive(ctx)
}

// GetTask retrieves one active task
func (s *TaskService) GetTask(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil || !task.Active {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// CreateTask creates a new task at the end of its category's order
func (s *TaskService) CreateTask(ctx context.Context, req *model.CreateTaskRequest) (*model.Task, error) {
	category, err := s.categoryRepo.GetByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil || !category.Active {
		return nil, ErrCategoryNotFound
	}

	count, err := s.taskRepo.CountActiveInCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if count >= model.MaxTasksPerCategory {
		return nil, ErrTaskLimitReached
	}

	maxOrder, err := s.taskRepo.MaxOrderInCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		Title:         req.Title,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		Order:         nextOrder(maxOrder),
		Duration:      model.Duration(req.Duration),
		Difficulty:    model.Difficulty(req.Difficulty),
		ExternalLinks: req.ExternalLinks,
		HelpfulLinks:  req.HelpfulLinks,
		Tips:          req.Tips,
		Requirements:  req.Requirements,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyAsync(EntityChange{
			EntityType: "task",
			EntityID:   task.ID,
			EntityName: task.Title,
			Action:     model.EntityActionCreated,
		})
	}
	return task, nil
}

// UpdateTask applies a partial update. Retitling never changes identity.
func (s *TaskService) UpdateTask(ctx context.Context, id string, req *model.UpdateTaskRequest) (*model.Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	var changed []string

	if req.Title != nil && *req.Title != task.Title {
		updates["title"] = *req.Title
		changed = append(changed, "title")
	}
	if req.Description != nil && *req.Description != task.Description {
		updates["description"] = *req.Description
		changed = append(changed, "description")
	}
	if req.Duration != nil && model.Duration(*req.Duration) != task.Duration {
		updates["duration"] = *req.Duration
		changed = append(changed, "duration")
	}
	if req.Difficulty != nil && model.Difficulty(*req.Difficulty) != task.Difficulty {
		updates["difficulty"] = *req.Difficulty
		changed = append(changed, "difficulty")
	}
	if req.ExternalLinks != nil {
		updates["external_links"] = *req.ExternalLinks
		changed = append(changed, "external_links")
	}
	if req.HelpfulLinks != nil {
		updates["helpful_links"] = *req.HelpfulLinks
		changed = append(changed, "helpful_links")
	}
	if req.Tips != nil {
		updates["tips"] = *req.Tips
		changed = append(changed, "tips")
	}
	if req.Requirements != nil {
		updates["requirements"] = *req.Requirements
		changed = append(changed, "requirements")
	}

	if len(updates) == 0 {
		return task, nil
	}

	if err := s.taskRepo.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	updated, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyAsync(EntityChange{
			EntityType:    "task",
			EntityID:      id,
			EntityName:    updated.Title,
			Action:        model.EntityActionUpdated,
			ChangedFields: changed,
		})
	}
	return updated, nil
}

// DeleteTask soft-deletes a task. The last active task in a category cannot
// be removed.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.taskRepo.CountActiveInCategory(ctx, task.CategoryID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastTask
	}

	if err := s.taskRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	// Close the gap the deletion left so the category's orders stay dense.
	if err := s.compactOrders(ctx, task.CategoryID); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyAsync(EntityChange{
			EntityType: "task",
			EntityID:   id,
			EntityName: task.Title,
			Action:     model.EntityActionDeleted,
		})
	}
	return nil
}

// ReorderTask moves one task to a new position within its own category. The
// final permutation is computed up front and written as a single bulk update.
func (s *TaskService) ReorderTask(ctx context.Context, id string, newOrder int) ([]*model.Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	siblings, err := s.taskRepo.ListActiveByCategory(ctx, task.CategoryID)
	if err != nil {
		return nil, err
	}

	items := make([]orderItem, len(siblings))
	for i, t := range siblings {
		items[i] = orderItem{ID: t.ID, Order: t.Order}
	}

	pairs, err := planMove(items, id, newOrder)
	if err != nil {
		if err == ErrItemNotFound {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if len(pairs) == 0 {
		return siblings, nil
	}

	if err := s.taskRepo.BulkUpdateOrders(ctx, pairs); err != nil {
		return nil, err
	}

	s.notifyReordered(id)
	return s.taskRepo.ListActiveByCategory(ctx, task.CategoryID)
}

// ReorderTasks writes caller-computed final order values for one category's
// tasks in a single bulk update
func (s *TaskService) ReorderTasks(ctx context.Context, categoryID string, pairs []model.OrderPair) ([]*model.Task, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil || !category.Active {
		return nil, ErrCategoryNotFound
	}

	if err := s.taskRepo.BulkUpdateOrders(ctx, pairs); err != nil {
		return nil, err
	}

	s.notifyReordered("")
	return s.taskRepo.ListActiveByCategory(ctx, categoryID)
}

// compactOrders renumbers a category's active tasks to 1..N preserving
// relative order
func (s *TaskService) compactOrders(ctx context.Context, categoryID string) error {
	tasks, err := s.taskRepo.ListActiveByCategory(ctx, categoryID)
	if err != nil {
		return err
	}

	var pairs []model.OrderPair
	for i, t := range tasks {
		if t.Order != i+1 {
			pairs = append(pairs, model.OrderPair{ID: t.ID, Order: i + 1})
		}
	}
	if len(pairs) == 0 {
		return nil
	}
	return s.taskRepo.BulkUpdateOrders(ctx, pairs)
}

func (s *TaskService) notifyReordered(id string) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyAsync(EntityChange{
		EntityType: "task",
		EntityID:   id,
		Action:     model.EntityActionReordered,
	})
}
