package service

import (
	"context"
	"sync"
	"time"

	"github.com/settleline/api/internal/model"
)

// ============================================================================
// Mock Category Repository
// ============================================================================

type mockCategoryRepo struct {
	createFunc           func(ctx context.Context, category *model.Category) error
	getByIDFunc          func(ctx context.Context, id string) (*model.Category, error)
	listActiveFunc       func(ctx context.Context) ([]*model.Category, error)
	countActiveFunc      func(ctx context.Context) (int, error)
	maxOrderFunc         func(ctx context.Context) (int, error)
	updateFunc           func(ctx context.Context, id string, updates map[string]interface{}) error
	softDeleteFunc       func(ctx context.Context, id string) error
	bulkUpdateOrdersFunc func(ctx context.Context, pairs []model.OrderPair) error
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *model.Category) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, category)
	}
	category.ID = "category:new"
	category.Active = true
	return nil
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id string) (*model.Category, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockCategoryRepo) ListActive(ctx context.Context) ([]*model.Category, error) {
	if m.listActiveFunc != nil {
		return m.listActiveFunc(ctx)
	}
	return nil, nil
}

func (m *mockCategoryRepo) CountActive(ctx context.Context) (int, error) {
	if m.countActiveFunc != nil {
		return m.countActiveFunc(ctx)
	}
	return 0, nil
}

func (m *mockCategoryRepo) MaxOrder(ctx context.Context) (int, error) {
	if m.maxOrderFunc != nil {
		return m.maxOrderFunc(ctx)
	}
	return 0, nil
}

func (m *mockCategoryRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, updates)
	}
	return nil
}

func (m *mockCategoryRepo) SoftDelete(ctx context.Context, id string) error {
	if m.softDeleteFunc != nil {
		return m.softDeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockCategoryRepo) BulkUpdateOrders(ctx context.Context, pairs []model.OrderPair) error {
	if m.bulkUpdateOrdersFunc != nil {
		return m.bulkUpdateOrdersFunc(ctx, pairs)
	}
	return nil
}

// ============================================================================
// Mock Task Repository
// ============================================================================

type mockTaskRepo struct {
	createFunc                func(ctx context.Context, task *model.Task) error
	getByIDFunc               func(ctx context.Context, id string) (*model.Task, error)
	listActiveFunc            func(ctx context.Context) ([]*model.Task, error)
	listActiveByCategoryFunc  func(ctx context.Context, categoryID string) ([]*model.Task, error)
	countActiveInCategoryFunc func(ctx context.Context, categoryID string) (int, error)
	maxOrderInCategoryFunc    func(ctx context.Context, categoryID string) (int, error)
	updateFunc                func(ctx context.Context, id string, updates map[string]interface{}) error
	softDeleteFunc            func(ctx context.Context, id string) error
	bulkUpdateOrdersFunc      func(ctx context.Context, pairs []model.OrderPair) error
}

func (m *mockTaskRepo) Create(ctx context.Context, task *model.Task) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, task)
	}
	task.ID = "task:new"
	task.Active = true
	return nil
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id string) (*model.Task, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockTaskRepo) ListActive(ctx context.Context) ([]*model.Task, error) {
	if m.listActiveFunc != nil {
		return m.listActiveFunc(ctx)
	}
	return nil, nil
}

func (m *mockTaskRepo) ListActiveByCategory(ctx context.Context, categoryID string) ([]*model.Task, error) {
	if m.listActiveByCategoryFunc != nil {
		return m.listActiveByCategoryFunc(ctx, categoryID)
	}
	return nil, nil
}

func (m *mockTaskRepo) CountActiveInCategory(ctx context.Context, categoryID string) (int, error) {
	if m.countActiveInCategoryFunc != nil {
		return m.countActiveInCategoryFunc(ctx, categoryID)
	}
	return 0, nil
}

func (m *mockTaskRepo) MaxOrderInCategory(ctx context.Context, categoryID string) (int, error) {
	if m.maxOrderInCategoryFunc != nil {
		return m.maxOrderInCategoryFunc(ctx, categoryID)
	}
	return 0, nil
}

func (m *mockTaskRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, updates)
	}
	return nil
}

func (m *mockTaskRepo) SoftDelete(ctx context.Context, id string) error {
	if m.softDeleteFunc != nil {
		return m.softDeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockTaskRepo) BulkUpdateOrders(ctx context.Context, pairs []model.OrderPair) error {
	if m.bulkUpdateOrdersFunc != nil {
		return m.bulkUpdateOrdersFunc(ctx, pairs)
	}
	return nil
}

// ============================================================================
// Mock Progress Repository
// ============================================================================

type mockProgressRepo struct {
	getByUserIDFunc func(ctx context.Context, userID string) (*model.UserProgress, error)
	createFunc      func(ctx context.Context, progress *model.UserProgress) error
	saveFunc        func(ctx context.Context, progress *model.UserProgress) error
}

func (m *mockProgressRepo) GetByUserID(ctx context.Context, userID string) (*model.UserProgress, error) {
	if m.getByUserIDFunc != nil {
		return m.getByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockProgressRepo) Create(ctx context.Context, progress *model.UserProgress) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, progress)
	}
	progress.ID = "user_progress:new"
	return nil
}

func (m *mockProgressRepo) Save(ctx context.Context, progress *model.UserProgress) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, progress)
	}
	return nil
}

// ============================================================================
// Mock User Repository
// ============================================================================

type mockUserRepo struct {
	createFunc                     func(ctx context.Context, user *model.User) error
	getByEmailFunc                 func(ctx context.Context, email string) (*model.User, error)
	getByIDFunc                    func(ctx context.Context, id string) (*model.User, error)
	updateProfileFunc              func(ctx context.Context, id string, updates map[string]interface{}) error
	updatePlanFunc                 func(ctx context.Context, id string, active bool, packageType *string, expiresOn *time.Time) error
	listNonAdminIDsFunc            func(ctx context.Context) ([]string, error)
	updateLastNotificationReadFunc func(ctx context.Context, id string, readAt time.Time) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = "user:new"
	return nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) error {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, id, updates)
	}
	return nil
}

func (m *mockUserRepo) UpdatePlan(ctx context.Context, id string, active bool, packageType *string, expiresOn *time.Time) error {
	if m.updatePlanFunc != nil {
		return m.updatePlanFunc(ctx, id, active, packageType, expiresOn)
	}
	return nil
}

func (m *mockUserRepo) ListNonAdminIDs(ctx context.Context) ([]string, error) {
	if m.listNonAdminIDsFunc != nil {
		return m.listNonAdminIDsFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateLastNotificationRead(ctx context.Context, id string, readAt time.Time) error {
	if m.updateLastNotificationReadFunc != nil {
		return m.updateLastNotificationReadFunc(ctx, id, readAt)
	}
	return nil
}

// ============================================================================
// Mock Notification Repository
// ============================================================================

type mockNotificationRepo struct {
	createManyFunc         func(ctx context.Context, notifications []*model.Notification) error
	findRecentFunc         func(ctx context.Context, entityType, entityID string, action model.EntityAction, since time.Time) ([]*model.Notification, error)
	mergeChangedFieldsFunc func(ctx context.Context, entityType, entityID string, action model.EntityAction, since time.Time, fields []string) error
	listForUserFunc        func(ctx context.Context, userID string, limit, offset int) ([]*model.Notification, error)
	countForUserFunc       func(ctx context.Context, userID string) (int, error)
	countSinceFunc         func(ctx context.Context, userID string, since time.Time) (int, error)
	deleteExpiredFunc      func(ctx context.Context) error
}

func (m *mockNotificationRepo) CreateMany(ctx context.Context, notifications []*model.Notification) error {
	if m.createManyFunc != nil {
		return m.createManyFunc(ctx, notifications)
	}
	return nil
}

func (m *mockNotificationRepo) FindRecentByEntity(ctx context.Context, entityType, entityID string, action model.EntityAction, since time.Time) ([]*model.Notification, error) {
	if m.findRecentFunc != nil {
		return m.findRecentFunc(ctx, entityType, entityID, action, since)
	}
	return nil, nil
}

func (m *mockNotificationRepo) MergeChangedFields(ctx context.Context, entityType, entityID string, action model.EntityAction, since time.Time, fields []string) error {
	if m.mergeChangedFieldsFunc != nil {
		return m.mergeChangedFieldsFunc(ctx, entityType, entityID, action, since, fields)
	}
	return nil
}

func (m *mockNotificationRepo) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*model.Notification, error) {
	if m.listForUserFunc != nil {
		return m.listForUserFunc(ctx, userID, limit, offset)
	}
	return nil, nil
}

func (m *mockNotificationRepo) CountForUser(ctx context.Context, userID string) (int, error) {
	if m.countForUserFunc != nil {
		return m.countForUserFunc(ctx, userID)
	}
	return 0, nil
}

func (m *mockNotificationRepo) CountSince(ctx context.Context, userID string, since time.Time) (int, error) {
	if m.countSinceFunc != nil {
		return m.countSinceFunc(ctx, userID, since)
	}
	return 0, nil
}

func (m *mockNotificationRepo) DeleteExpired(ctx context.Context) error {
	if m.deleteExpiredFunc != nil {
		return m.deleteExpiredFunc(ctx)
	}
	return nil
}

// ============================================================================
// Mock Stats Repository
// ============================================================================

type mockStatsRepo struct {
	mu        sync.Mutex
	paidUsers int
	deltas    []int
}

func (m *mockStatsRepo) Get(ctx context.Context) (*model.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &model.Stats{ID: model.StatsID, PaidUsers: m.paidUsers}, nil
}

func (m *mockStatsRepo) AddPaidUsers(ctx context.Context, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paidUsers += delta
	m.deltas = append(m.deltas, delta)
	return nil
}

// ============================================================================
// Mock Notifier
// ============================================================================

type mockNotifier struct {
	mu      sync.Mutex
	changes []EntityChange
}

func (m *mockNotifier) NotifyAsync(change EntityChange) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changes = append(m.changes, change)
}

func (m *mockNotifier) recorded() []EntityChange {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EntityChange, len(m.changes))
	copy(out, m.changes)
	return out
}

// ============================================================================
// Mock Token Signer
// ============================================================================

type mockSigner struct {
	signFunc func(userID, role string) (string, error)
}

func (m *mockSigner) Sign(userID, role string) (string, error) {
	if m.signFunc != nil {
		return m.signFunc(userID, role)
	}
	return "token-" + userID, nil
}
