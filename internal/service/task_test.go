package service

import (
	"context"
	"errors"
	"testing"

	"github.com/settleline/api/internal/model"
)

func activeTasks(categoryID string, ids ...string) []*model.Task {
	tasks := make([]*model.Task, len(ids))
	for i, id := range ids {
		tasks[i] = &model.Task{ID: id, Title: "Task " + id, CategoryID: categoryID, Order: i + 1, Active: true}
	}
	return tasks
}

func activeCategoryByID(ctx context.Context, id string) (*model.Category, error) {
	return &model.Category{ID: id, Active: true}, nil
}

// ============================================================================
// CreateTask Tests
// ============================================================================

func TestCreateTask_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	taskRepo := &mockTaskRepo{
		countActiveInCategoryFunc: func(ctx context.Context, categoryID string) (int, error) { return 5, nil },
		maxOrderInCategoryFunc:    func(ctx context.Context, categoryID string) (int, error) { return 5, nil },
	}
	notifier := &mockNotifier{}
	svc := NewTaskService(TaskServiceConfig{
		TaskRepo:     taskRepo,
		CategoryRepo: &mockCategoryRepo{getByIDFunc: activeCategoryByID},
		Notifier:     notifier,
	})

	req := &model.CreateTaskRequest{
		Title:       "Register address",
		Description: "Visit the registration office within 14 days",
		CategoryID:  "category:admin",
		Duration:    "1_3_hours",
		Difficulty:  "medium",
	}
	task, err := svc.CreateTask(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Order != 6 {
		t.Errorf("expected order 6 (max-in-category+1), got %d", task.Order)
	}

	changes := notifier.recorded()
	if len(changes) != 1 || changes[0].EntityType != "task" || changes[0].Action != model.EntityActionCreated {
		t.Errorf("expected one task created notification, got %v", changes)
	}
}

func TestCreateTask_LimitReached(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	taskRepo := &mockTaskRepo{
		countActiveInCategoryFunc: func(ctx context.Context, categoryID string) (int, error) {
			return model.MaxTasksPerCategory, nil
		},
	}
	svc := NewTaskService(TaskServiceConfig{
		TaskRepo:     taskRepo,
		CategoryRepo: &mockCategoryRepo{getByIDFunc: activeCategoryByID},
	})

	req := &model.CreateTaskRequest{
		Title:       "Thirteenth",
		Description: "One too many",
		CategoryID:  "category:full",
		Duration:    "half_day",
		Difficulty:  "easy",
	}
	_, err := svc.CreateTask(ctx, req)
	if !errors.Is(err, ErrTaskLimitReached) {
		t.Errorf("expected ErrTaskLimitReached, got %v", err)
	}
}

func TestCreateTask_CategoryMissing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := NewTaskService(TaskServiceConfig{
		TaskRepo:     &mockTaskRepo{},
		CategoryRepo: &mockCategoryRepo{}, // GetByID returns nil
	})

	req := &model.CreateTaskRequest{
		Title:       "Orphan",
		Description: "No home",
		CategoryID:  "category:missing",
		Duration:    "full_day",
		Difficulty:  "hard",
	}
	_, err := svc.CreateTask(ctx, req)
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
}

// ============================================================================
// DeleteTask Tests
// ============================================================================

func TestDeleteTask_LastInCategory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	taskRepo := &mockTaskRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Task, error) {
			return &model.Task{ID: id, CategoryID: "category:x", Active: true}, nil
		},
		countActiveInCategoryFunc: func(ctx context.Context, categoryID string) (int, error) { return 1, nil },
	}
	svc := NewTaskService(TaskServiceConfig{TaskRepo: taskRepo, CategoryRepo: &mockCategoryRepo{}})

	err := svc.DeleteTask(ctx, "task:only")
	if !errors.Is(err, ErrLastTask) {
		t.Errorf("expected ErrLastTask, got %v", err)
	}
}

func TestDeleteTask_CompactsCategoryOrders(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var written []model.OrderPair
	taskRepo := &mockTaskRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Task, error) {
			return &model.Task{ID: id, Title: "Middle", CategoryID: "category:x", Order: 2, Active: true}, nil
		},
		countActiveInCategoryFunc: func(ctx context.Context, categoryID string) (int, error) { return 3, nil },
		listActiveByCategoryFunc: func(ctx context.Context, categoryID string) ([]*model.Task, error) {
			return []*model.Task{
				{ID: "task:a", CategoryID: categoryID, Order: 1, Active: true},
				{ID: "task:c", CategoryID: categoryID, Order: 3, Active: true},
			}, nil
		},
		bulkUpdateOrdersFunc: func(ctx context.Context, pairs []model.OrderPair) error {
			written = pairs
			return nil
		},
	}
	svc := NewTaskService(TaskServiceConfig{TaskRepo: taskRepo, CategoryRepo: &mockCategoryRepo{}})

	if err := svc.DeleteTask(ctx, "task:b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(written) != 1 || written[0].ID != "task:c" || written[0].Order != 2 {
		t.Errorf("expected task:c renumbered to 2, got %v", written)
	}
}

// ============================================================================
// Reorder Tests
// ============================================================================

func TestReorderTask_WithinCategory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var written []model.OrderPair
	taskRepo := &mockTaskRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Task, error) {
			return &model.Task{ID: id, CategoryID: "category:x", Order: 4, Active: true}, nil
		},
		listActiveByCategoryFunc: func(ctx context.Context, categoryID string) ([]*model.Task, error) {
			return activeTasks(categoryID, "task:a", "task:b", "task:c", "task:d"), nil
		},
		bulkUpdateOrdersFunc: func(ctx context.Context, pairs []model.OrderPair) error {
			written = pairs
			return nil
		},
	}
	svc := NewTaskService(TaskServiceConfig{TaskRepo: taskRepo, CategoryRepo: &mockCategoryRepo{}})

	if _, err := svc.ReorderTask(ctx, "task:d", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// [A,B,C,D] with D -> 1 yields D=1, A=2, B=3, C=4.
	want := map[string]int{"task:d": 1, "task:a": 2, "task:b": 3, "task:c": 4}
	if len(written) != len(want) {
		t.Fatalf("expected %d pairs, got %v", len(want), written)
	}
	for _, p := range written {
		if want[p.ID] != p.Order {
			t.Errorf("pair %s: expected order %d, got %d", p.ID, want[p.ID], p.Order)
		}
	}
}

func TestReorderTask_NoOpWritesNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	taskRepo := &mockTaskRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Task, error) {
			return &model.Task{ID: id, CategoryID: "category:x", Order: 2, Active: true}, nil
		},
		listActiveByCategoryFunc: func(ctx context.Context, categoryID string) ([]*model.Task, error) {
			return activeTasks(categoryID, "task:a", "task:b"), nil
		},
		bulkUpdateOrdersFunc: func(ctx context.Context, pairs []model.OrderPair) error {
			t.Error("no-op reorder must not write")
			return nil
		},
	}
	svc := NewTaskService(TaskServiceConfig{TaskRepo: taskRepo, CategoryRepo: &mockCategoryRepo{}})

	if _, err := svc.ReorderTask(ctx, "task:b", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReorderTasks_RequiresActiveCategory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := NewTaskService(TaskServiceConfig{
		TaskRepo:     &mockTaskRepo{},
		CategoryRepo: &mockCategoryRepo{}, // GetByID returns nil
	})

	_, err := svc.ReorderTasks(ctx, "category:missing", []model.OrderPair{{ID: "task:a", Order: 1}})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestGetTask_InactiveIsNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	taskRepo := &mockTaskRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Task, error) {
			return &model.Task{ID: id, Active: false}, nil
		},
	}
	svc := NewTaskService(TaskServiceConfig{TaskRepo: taskRepo, CategoryRepo: &mockCategoryRepo{}})

	_, err := svc.GetTask(ctx, "task:gone")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}
