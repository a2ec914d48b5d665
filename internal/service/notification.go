package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/settleline/api/internal/model"
)

const (
	// DefaultMergeWindow is how long repeated edits to the same entity keep
	// amending the existing notification instead of creating a new one.
	DefaultMergeWindow = 5 * time.Minute

	// DefaultNotificationTTL is how long notifications live before the purge
	// job removes them, read or not.
	DefaultNotificationTTL = 7 * 24 * time.Hour

	defaultFeedLimit = 20
	maxFeedLimit     = 100

	notifyTimeout = 10 * time.Second
)

// NotificationRepository defines the interface for notification storage
type NotificationRepository interface {
	CreateMany(ctx context.Context, notifications []*model.Notification) error
	FindRecentByEntity(ctx context.Context, entityType, entityID string, action model.EntityAction, since time.Time) ([]*model.Notification, error)
	MergeChangedFields(ctx context.Context, entityType, entityID string, action model.EntityAction, since time.Time, fields []string) error
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]*model.Notification, error)
	CountForUser(ctx context.Context, userID string) (int, error)
	CountSince(ctx context.Context, userID string, since time.Time) (int, error)
	DeleteExpired(ctx context.Context) error
}

// NotificationUserRepository is the slice of user storage the notification
// service needs for fan-out and read tracking
type NotificationUserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	ListNonAdminIDs(ctx context.Context) ([]string, error)
	UpdateLastNotificationRead(ctx context.Context, id string, readAt time.Time) error
}

// EntityChange describes a curation mutation for the notification side-channel
type EntityChange struct {
	EntityType    string // "category" or "task"
	EntityID      string
	EntityName    string
	Action        model.EntityAction
	ChangedFields []string
}

// NotificationService handles the notification side-channel: merged fan-out
// on curation changes, the dashboard feed, and expiry
type NotificationService struct {
	notificationRepo NotificationRepository
	userRepo         NotificationUserRepository
	mergeWindow      time.Duration
	ttl              time.Duration
	logger           *slog.Logger
	now              func() time.Time
}

// NotificationServiceConfig holds configuration for the notification service
type NotificationServiceConfig struct {
	NotificationRepo NotificationRepository
	UserRepo         NotificationUserRepository
	MergeWindow      time.Duration
	TTL              time.Duration
	Logger           *slog.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(cfg NotificationServiceConfig) *NotificationService {
	mergeWindow := cfg.MergeWindow
	if mergeWindow <= 0 {
		mergeWindow = DefaultMergeWindow
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationService{
		notificationRepo: cfg.NotificationRepo,
		userRepo:         cfg.UserRepo,
		mergeWindow:      mergeWindow,
		ttl:              ttl,
		logger:           logger,
		now:              time.Now,
	}
}

// NotifyEntityChange records a curation mutation. When a live notification
// for the same (entity type, entity id, action) exists within the merge
// window the changed-field sets are unioned onto it; otherwise one
// notification per non-admin user is created.
func (s *NotificationService) NotifyEntityChange(ctx context.Context, change EntityChange) error {
	cutoff := s.now().Add(-s.mergeWindow)

	existing, err := s.notificationRepo.FindRecentByEntity(ctx, change.EntityType, change.EntityID, change.Action, cutoff)
	if err != nil {
		return err
	}

	if len(existing) > 0 {
		merged := unionFields(existing[0].Metadata.ChangedFields, change.ChangedFields)
		return s.notificationRepo.MergeChangedFields(ctx, change.EntityType, change.EntityID, change.Action, cutoff, merged)
	}

	recipients, err := s.userRepo.ListNonAdminIDs(ctx)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return nil
	}

	title, message := describeChange(change)
	now := s.now()

	notifications := make([]*model.Notification, 0, len(recipients))
	for _, userID := range recipients {
		notifications = append(notifications, &model.Notification{
			UserID:   userID,
			Title:    title,
			Message:  message,
			Type:     model.NotificationTypeContentUpdate,
			Priority: model.NotificationPriorityNormal,
			Metadata: model.NotificationMetadata{
				EntityType:    change.EntityType,
				EntityID:      change.EntityID,
				Action:        change.Action,
				ChangedFields: change.ChangedFields,
			},
			CreatedOn: now,
			ExpiresOn: now.Add(s.ttl),
		})
	}

	return s.notificationRepo.CreateMany(ctx, notifications)
}

// NotifyAsync runs NotifyEntityChange in the background. Curation mutations
// must never fail because the side-channel did; errors are logged and
// swallowed.
func (s *NotificationService) NotifyAsync(change EntityChange) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("notification fan-out panicked", "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.NotifyEntityChange(ctx, change); err != nil {
			s.logger.Error("notification fan-out failed",
				"entity_type", change.EntityType,
				"entity_id", change.EntityID,
				"action", change.Action,
				"error", err)
		}
	}()
}

// Announce broadcasts an admin message to every non-admin user
func (s *NotificationService) Announce(ctx context.Context, req *model.AnnounceRequest) (int, error) {
	recipients, err := s.userRepo.ListNonAdminIDs(ctx)
	if err != nil {
		return 0, err
	}
	if len(recipients) == 0 {
		return 0, nil
	}

	priority := model.NotificationPriorityNormal
	if req.Priority != "" {
		priority = model.NotificationPriority(req.Priority)
	}
	now := s.now()

	notifications := make([]*model.Notification, 0, len(recipients))
	for _, userID := range recipients {
		notifications = append(notifications, &model.Notification{
			UserID:    userID,
			Title:     req.Title,
			Message:   req.Message,
			Type:      model.NotificationTypeAnnouncement,
			Priority:  priority,
			ActionURL: req.ActionURL,
			CreatedOn: now,
			ExpiresOn: now.Add(s.ttl),
		})
	}

	if err := s.notificationRepo.CreateMany(ctx, notifications); err != nil {
		return 0, err
	}
	return len(recipients), nil
}

// GetFeed returns a page of the user's notifications and advances the read
// horizon to now. Unread state is derived from the user's
// lastNotificationRead timestamp, not tracked per record.
func (s *NotificationService) GetFeed(ctx context.Context, userID string, limit, offset int, unreadOnly bool) (*model.NotificationFeed, error) {
	if limit <= 0 || limit > maxFeedLimit {
		limit = defaultFeedLimit
	}
	if offset < 0 {
		offset = 0
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	lastRead := time.Time{}
	if user.LastNotificationRead != nil {
		lastRead = *user.LastNotificationRead
	}

	notifications, err := s.notificationRepo.ListForUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	if unreadOnly {
		unread := notifications[:0]
		for _, n := range notifications {
			if n.CreatedOn.After(lastRead) {
				unread = append(unread, n)
			}
		}
		notifications = unread
	}

	unreadCount, err := s.notificationRepo.CountSince(ctx, userID, lastRead)
	if err != nil {
		return nil, err
	}
	total, err := s.notificationRepo.CountForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Fetching the feed marks everything as read.
	if err := s.userRepo.UpdateLastNotificationRead(ctx, userID, s.now()); err != nil {
		return nil, err
	}

	return &model.NotificationFeed{
		Notifications: notifications,
		UnreadCount:   unreadCount,
		Total:         total,
	}, nil
}

// PurgeExpired removes every notification past its expiry. Called by the
// scheduled purge job.
func (s *NotificationService) PurgeExpired(ctx context.Context) error {
	return s.notificationRepo.DeleteExpired(ctx)
}

// unionFields merges two changed-field sets, sorted for stable output
func unionFields(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	for _, f := range a {
		seen[f] = true
	}
	for _, f := range b {
		seen[f] = true
	}
	merged := make([]string, 0, len(seen))
	for f := range seen {
		merged = append(merged, f)
	}
	sort.Strings(merged)
	return merged
}

// describeChange builds the user-facing title and message for a mutation
func describeChange(change EntityChange) (string, string) {
	noun := change.EntityType
	name := change.EntityName
	if name == "" {
		name = "an item"
	}

	switch change.Action {
	case model.EntityActionCreated:
		return fmt.Sprintf("New %s added", noun),
			fmt.Sprintf("%q was added to your relocation checklist", name)
	case model.EntityActionDeleted:
		return fmt.Sprintf("%s removed", capitalize(noun)),
			fmt.Sprintf("%q was removed from your relocation checklist", name)
	case model.EntityActionReordered:
		return "Checklist reorganized",
			"The order of your relocation checklist has changed"
	default:
		msg := fmt.Sprintf("%q was updated", name)
		if len(change.ChangedFields) > 0 {
			msg = fmt.Sprintf("%q was updated (%s)", name, strings.Join(change.ChangedFields, ", "))
		}
		return fmt.Sprintf("%s updated", capitalize(noun)), msg
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
