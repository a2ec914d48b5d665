package service

import (
	"context"
	"math"
	"time"

	"github.com/settleline/api/internal/model"
)

// ProgressRepository defines the interface for progress storage
type ProgressRepository interface {
	GetByUserID(ctx context.Context, userID string) (*model.UserProgress, error)
	Create(ctx context.Context, progress *model.UserProgress) error
	Save(ctx context.Context, progress *model.UserProgress) error
}

// ProgressUserRepository is the slice of user storage the progress service
// needs for the plan check
type ProgressUserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// ProgressService handles per-user completion tracking. The progress record
// is denormalized and recomputed in full on every change; it never drifts
// from the completion list it is derived from.
type ProgressService struct {
	progressRepo ProgressRepository
	taskRepo     TaskRepository
	categoryRepo CategoryRepository
	userRepo     ProgressUserRepository
}

// ProgressServiceConfig holds configuration for the progress service
type ProgressServiceConfig struct {
	ProgressRepo ProgressRepository
	TaskRepo     TaskRepository
	CategoryRepo CategoryRepository
	UserRepo     ProgressUserRepository
}

// NewProgressService creates a new progress service
func NewProgressService(cfg ProgressServiceConfig) *ProgressService {
	return &ProgressService{
		progressRepo: cfg.ProgressRepo,
		taskRepo:     cfg.TaskRepo,
		categoryRepo: cfg.CategoryRepo,
		userRepo:     cfg.UserRepo,
	}
}

// ToggleTask sets a task's completion state for the user and recomputes the
// whole progress record. Toggling to the current state is a no-op on the
// completion list but still recomputes, so the percentages self-heal.
func (s *ProgressService) ToggleTask(ctx context.Context, userID string, req *model.ToggleProgressRequest) (*model.UserProgress, error) {
	task, err := s.taskRepo.GetByID(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}
	if task == nil || !task.Active {
		return nil, ErrTaskNotFound
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.HasActivePlan() {
		return nil, ErrPlanRequired
	}

	progress, _, err := s.getOrInit(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Completed {
		if !progress.IsCompleted(req.TaskID) {
			progress.CompletedTasks = append(progress.CompletedTasks, model.CompletedTask{
				TaskID:      req.TaskID,
				CompletedAt: time.Now(),
			})
		}
	} else {
		kept := progress.CompletedTasks[:0]
		for _, ct := range progress.CompletedTasks {
			if ct.TaskID != req.TaskID {
				kept = append(kept, ct)
			}
		}
		progress.CompletedTasks = kept
	}

	if err := s.recompute(ctx, progress); err != nil {
		return nil, err
	}

	if err := s.progressRepo.Save(ctx, progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// GetProgress returns the user's progress record, creating a zeroed one on
// first access. Existing records are recomputed before returning so content
// changes since the last toggle are reflected.
func (s *ProgressService) GetProgress(ctx context.Context, userID string) (*model.UserProgress, error) {
	progress, created, err := s.getOrInit(ctx, userID)
	if err != nil {
		return nil, err
	}
	if created {
		return progress, nil
	}

	before := snapshot(progress)
	if err := s.recompute(ctx, progress); err != nil {
		return nil, err
	}
	if !snapshotEqual(before, snapshot(progress)) {
		if err := s.progressRepo.Save(ctx, progress); err != nil {
			return nil, err
		}
	}
	return progress, nil
}

// getOrInit fetches the user's record or creates a freshly computed one
func (s *ProgressService) getOrInit(ctx context.Context, userID string) (*model.UserProgress, bool, error) {
	progress, err := s.progressRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if progress != nil {
		return progress, false, nil
	}

	progress = &model.UserProgress{
		UserID:           userID,
		CategoryProgress: make(map[string]int),
	}
	if err := s.recompute(ctx, progress); err != nil {
		return nil, false, err
	}
	if err := s.progressRepo.Create(ctx, progress); err != nil {
		return nil, false, err
	}
	return progress, true, nil
}

// recompute rebuilds every derived field from the completion list and the
// current active content. CategoryProgress keys always end up equal to the
// active category id set; keys of deleted categories are dropped.
func (s *ProgressService) recompute(ctx context.Context, progress *model.UserProgress) error {
	categories, err := s.categoryRepo.ListActive(ctx)
	if err != nil {
		return err
	}
	tasks, err := s.taskRepo.ListActive(ctx)
	if err != nil {
		return err
	}

	completed := make(map[string]bool, len(progress.CompletedTasks))
	for _, ct := range progress.CompletedTasks {
		completed[ct.TaskID] = true
	}

	totalByCategory := make(map[string]int)
	doneByCategory := make(map[string]int)
	totalActive := 0
	doneActive := 0

	for _, t := range tasks {
		totalByCategory[t.CategoryID]++
		totalActive++
		if completed[t.ID] {
			doneByCategory[t.CategoryID]++
			doneActive++
		}
	}

	progress.OverallProgress = percentage(doneActive, totalActive)
	progress.CategoryProgress = make(map[string]int, len(categories))
	for _, c := range categories {
		progress.CategoryProgress[c.ID] = percentage(doneByCategory[c.ID], totalByCategory[c.ID])
	}
	return nil
}

// percentage rounds 100*done/total to the nearest integer, 0 when empty
func percentage(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

type progressSnapshot struct {
	overall    int
	byCategory map[string]int
}

func snapshot(p *model.UserProgress) progressSnapshot {
	byCategory := make(map[string]int, len(p.CategoryProgress))
	for k, v := range p.CategoryProgress {
		byCategory[k] = v
	}
	return progressSnapshot{overall: p.OverallProgress, byCategory: byCategory}
}

func snapshotEqual(a, b progressSnapshot) bool {
	if a.overall != b.overall || len(a.byCategory) != len(b.byCategory) {
		return false
	}
	for k, v := range a.byCategory {
		if b.byCategory[k] != v {
			return false
		}
	}
	return true
}
