package service

import (
	"context"
	"errors"
	"testing"

	"github.com/settleline/api/internal/model"
)

func activeCategories(ids ...string) []*model.Category {
	categories := make([]*model.Category, len(ids))
	for i, id := range ids {
		categories[i] = &model.Category{ID: id, Name: "Category " + id, Order: i + 1, Active: true}
	}
	return categories
}

// ============================================================================
// CreateCategory Tests
// ============================================================================

func TestCreateCategory_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	categoryRepo := &mockCategoryRepo{
		countActiveFunc: func(ctx context.Context) (int, error) { return 3, nil },
		maxOrderFunc:    func(ctx context.Context) (int, error) { return 3, nil },
	}
	notifier := &mockNotifier{}
	svc := NewCategoryService(CategoryServiceConfig{
		CategoryRepo: categoryRepo,
		TaskRepo:     &mockTaskRepo{},
		Notifier:     notifier,
	})

	req := &model.CreateCategoryRequest{Name: "Housing", TimeFrame: "before_move"}
	category, err := svc.CreateCategory(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if category.Order != 4 {
		t.Errorf("expected order 4 (max+1), got %d", category.Order)
	}
	if category.Color != model.DefaultCategoryColor {
		t.Errorf("expected default color, got %s", category.Color)
	}

	changes := notifier.recorded()
	if len(changes) != 1 || changes[0].Action != model.EntityActionCreated {
		t.Errorf("expected one created notification, got %v", changes)
	}
}

func TestCreateCategory_LimitReached(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	categoryRepo := &mockCategoryRepo{
		countActiveFunc: func(ctx context.Context) (int, error) { return model.MaxCategories, nil },
	}
	svc := NewCategoryService(CategoryServiceConfig{
		CategoryRepo: categoryRepo,
		TaskRepo:     &mockTaskRepo{},
	})

	req := &model.CreateCategoryRequest{Name: "Seventh", TimeFrame: "ongoing"}
	_, err := svc.CreateCategory(ctx, req)
	if !errors.Is(err, ErrCategoryLimitReached) {
		t.Errorf("expected ErrCategoryLimitReached, got %v", err)
	}
}

// ============================================================================
// DeleteCategory Tests
// ============================================================================

func TestDeleteCategory_LastActive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	categoryRepo := &mockCategoryRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Category, error) {
			return &model.Category{ID: id, Active: true}, nil
		},
		countActiveFunc: func(ctx context.Context) (int, error) { return 1, nil },
	}
	svc := NewCategoryService(CategoryServiceConfig{
		CategoryRepo: categoryRepo,
		TaskRepo:     &mockTaskRepo{},
	})

	err := svc.DeleteCategory(ctx, "category:only")
	if !errors.Is(err, ErrLastCategory) {
		t.Errorf("expected ErrLastCategory, got %v", err)
	}
}

func TestDeleteCategory_BlockedByActiveTasks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	categoryRepo := &mockCategoryRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Category, error) {
			return &model.Category{ID: id, Active: true}, nil
		},
		countActiveFunc: func(ctx context.Context) (int, error) { return 3, nil },
	}
	taskRepo := &mockTaskRepo{
		countActiveInCategoryFunc: func(ctx context.Context, categoryID string) (int, error) { return 2, nil },
	}
	svc := NewCategoryService(CategoryServiceConfig{CategoryRepo: categoryRepo, TaskRepo: taskRepo})

	err := svc.DeleteCategory(ctx, "category:busy")
	if !errors.Is(err, ErrCategoryHasTasks) {
		t.Errorf("expected ErrCategoryHasTasks, got %v", err)
	}
}

func TestDeleteCategory_CompactsOrders(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	deleted := false
	var written []model.OrderPair
	categoryRepo := &mockCategoryRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Category, error) {
			return &model.Category{ID: id, Name: "Middle", Active: true}, nil
		},
		countActiveFunc: func(ctx context.Context) (int, error) { return 3, nil },
		softDeleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
		listActiveFunc: func(ctx context.Context) ([]*model.Category, error) {
			// Post-delete view: survivor orders have a gap at 2.
			return []*model.Category{
				{ID: "category:a", Order: 1, Active: true},
				{ID: "category:c", Order: 3, Active: true},
			}, nil
		},
		bulkUpdateOrdersFunc: func(ctx context.Context, pairs []model.OrderPair) error {
			written = pairs
			return nil
		},
	}
	svc := NewCategoryService(CategoryServiceConfig{CategoryRepo: categoryRepo, TaskRepo: &mockTaskRepo{}})

	if err := svc.DeleteCategory(ctx, "category:b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Fatal("expected soft delete")
	}
	if len(written) != 1 || written[0].ID != "category:c" || written[0].Order != 2 {
		t.Errorf("expected category:c renumbered to 2, got %v", written)
	}
}

// ============================================================================
// Reorder Tests
// ============================================================================

func TestReorderCategory_MovesFirstToThird(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var written []model.OrderPair
	categoryRepo := &mockCategoryRepo{
		listActiveFunc: func(ctx context.Context) ([]*model.Category, error) {
			return activeCategories("category:a", "category:b", "category:c", "category:d"), nil
		},
		bulkUpdateOrdersFunc: func(ctx context.Context, pairs []model.OrderPair) error {
			written = pairs
			return nil
		},
	}
	svc := NewCategoryService(CategoryServiceConfig{CategoryRepo: categoryRepo, TaskRepo: &mockTaskRepo{}})

	if _, err := svc.ReorderCategory(ctx, "category:a", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// [A,B,C,D] with A -> 3 yields B=1, C=2, A=3; D untouched.
	want := map[string]int{"category:b": 1, "category:c": 2, "category:a": 3}
	if len(written) != len(want) {
		t.Fatalf("expected %d pairs, got %v", len(want), written)
	}
	for _, p := range written {
		if want[p.ID] != p.Order {
			t.Errorf("pair %s: expected order %d, got %d", p.ID, want[p.ID], p.Order)
		}
	}
}

func TestReorderCategory_NoOpWritesNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	categoryRepo := &mockCategoryRepo{
		listActiveFunc: func(ctx context.Context) ([]*model.Category, error) {
			return activeCategories("category:a", "category:b"), nil
		},
		bulkUpdateOrdersFunc: func(ctx context.Context, pairs []model.OrderPair) error {
			t.Error("no-op reorder must not write")
			return nil
		},
	}
	svc := NewCategoryService(CategoryServiceConfig{CategoryRepo: categoryRepo, TaskRepo: &mockTaskRepo{}})

	result, err := svc.ReorderCategory(ctx, "category:b", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("expected unchanged list, got %d items", len(result))
	}
}

func TestReorderCategory_Unknown(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	categoryRepo := &mockCategoryRepo{
		listActiveFunc: func(ctx context.Context) ([]*model.Category, error) {
			return activeCategories("category:a"), nil
		},
	}
	svc := NewCategoryService(CategoryServiceConfig{CategoryRepo: categoryRepo, TaskRepo: &mockTaskRepo{}})

	_, err := svc.ReorderCategory(ctx, "category:missing", 1)
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestReorderCategories_SingleBulkWrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	writes := 0
	categoryRepo := &mockCategoryRepo{
		listActiveFunc: func(ctx context.Context) ([]*model.Category, error) {
			return activeCategories("category:b", "category:a"), nil
		},
		bulkUpdateOrdersFunc: func(ctx context.Context, pairs []model.OrderPair) error {
			writes++
			return nil
		},
	}
	svc := NewCategoryService(CategoryServiceConfig{CategoryRepo: categoryRepo, TaskRepo: &mockTaskRepo{}})

	pairs := []model.OrderPair{
		{ID: "category:b", Order: 1},
		{ID: "category:a", Order: 2},
	}
	if _, err := svc.ReorderCategories(ctx, pairs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if writes != 1 {
		t.Errorf("expected exactly one bulk write, got %d", writes)
	}
}

// ============================================================================
// UpdateCategory Tests
// ============================================================================

func TestUpdateCategory_RenameKeepsIdentity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	name := "Neighborhood"
	var updatedFields map[string]interface{}
	current := &model.Category{ID: "category:x", Name: "Housing", Active: true}
	categoryRepo := &mockCategoryRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Category, error) {
			return current, nil
		},
		updateFunc: func(ctx context.Context, id string, updates map[string]interface{}) error {
			updatedFields = updates
			current = &model.Category{ID: "category:x", Name: name, Active: true}
			return nil
		},
	}
	notifier := &mockNotifier{}
	svc := NewCategoryService(CategoryServiceConfig{
		CategoryRepo: categoryRepo,
		TaskRepo:     &mockTaskRepo{},
		Notifier:     notifier,
	})

	updated, err := svc.UpdateCategory(ctx, "category:x", &model.UpdateCategoryRequest{Name: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ID != "category:x" {
		t.Errorf("rename changed identity: %s", updated.ID)
	}
	if updatedFields["name"] != "Neighborhood" {
		t.Errorf("expected name update, got %v", updatedFields)
	}

	changes := notifier.recorded()
	if len(changes) != 1 || len(changes[0].ChangedFields) != 1 || changes[0].ChangedFields[0] != "name" {
		t.Errorf("expected changed fields [name], got %v", changes)
	}
}

func TestUpdateCategory_NoChangesSkipsWrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	categoryRepo := &mockCategoryRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Category, error) {
			return &model.Category{ID: id, Name: "Housing", Active: true}, nil
		},
		updateFunc: func(ctx context.Context, id string, updates map[string]interface{}) error {
			t.Error("identical update must not write")
			return nil
		},
	}
	svc := NewCategoryService(CategoryServiceConfig{CategoryRepo: categoryRepo, TaskRepo: &mockTaskRepo{}})

	same := "Housing"
	if _, err := svc.UpdateCategory(ctx, "category:x", &model.UpdateCategoryRequest{Name: &same}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetCategory_InactiveIsNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	categoryRepo := &mockCategoryRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Category, error) {
			return &model.Category{ID: id, Active: false}, nil
		},
	}
	svc := NewCategoryService(CategoryServiceConfig{CategoryRepo: categoryRepo, TaskRepo: &mockTaskRepo{}})

	_, err := svc.GetCategory(ctx, "category:gone")
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
}
