package repository

import (
	"context"
	"errors"
	"time"

	"github.com/settleline/api/internal/database"
	"github.com/settleline/api/internal/model"
)

// NotificationRepository handles notification data access
type NotificationRepository struct {
	db database.Database
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db database.Database) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateMany inserts one notification per recipient in a single transaction.
// Fan-out is all-or-nothing so a partial broadcast never reaches some users
// and not others.
func (r *NotificationRepository) CreateMany(ctx context.Context, notifications []*model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	batch := database.NewAtomicBatch()
	for _, n := range notifications {
		vars := map[string]interface{}{
			"user_id":        n.UserID,
			"title":          n.Title,
			"message":        n.Message,
			"type":           string(n.Type),
			"priority":       string(n.Priority),
			"action_url":     n.ActionURL,
			"entity_type":    n.Metadata.EntityType,
			"entity_id":      n.Metadata.EntityID,
			"action":         string(n.Metadata.Action),
			"changed_fields": n.Metadata.ChangedFields,
			"expires_on":     n.ExpiresOn,
		}
		batch.Add(`
			CREATE notification CONTENT {
				user_id: $user_id,
				title: $title,
				message: $message,
				type: $type,
				priority: $priority,
				action_url: $action_url,
				metadata: {
					entity_type: $entity_type,
					entity_id: $entity_id,
					action: $action,
					changed_fields: $changed_fields
				},
				created_on: time::now(),
				expires_on: $expires_on
			}
		`, vars)
	}
	return batch.Execute(ctx, r.db)
}

// FindRecentByEntity returns notifications for the same entity and action
// created after the given cutoff. Used by the merge window check; a non-empty
// result means the new event amends the existing records instead of creating
// new ones.
func (r *NotificationRepository) FindRecentByEntity(ctx context.Context, entityType, entityID string, action model.EntityAction, since time.Time) ([]*model.Notification, error) {
	query := `
		SELECT * FROM notification
		WHERE metadata.entity_type = $entity_type
			AND metadata.entity_id = $entity_id
			AND metadata.action = $action
			AND created_on > $since
	`
	vars := map[string]interface{}{
		"entity_type": entityType,
		"entity_id":   entityID,
		"action":      string(action),
		"since":       since,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseNotificationsResult(result)
}

// MergeChangedFields replaces the changed-fields union on every live
// notification for the entity and action within the window
func (r *NotificationRepository) MergeChangedFields(ctx context.Context, entityType, entityID string, action model.EntityAction, since time.Time, fields []string) error {
	query := `
		UPDATE notification SET metadata.changed_fields = $fields
		WHERE metadata.entity_type = $entity_type
			AND metadata.entity_id = $entity_id
			AND metadata.action = $action
			AND created_on > $since
	`
	vars := map[string]interface{}{
		"fields":      fields,
		"entity_type": entityType,
		"entity_id":   entityID,
		"action":      string(action),
		"since":       since,
	}

	return r.db.Execute(ctx, query, vars)
}

// ListForUser retrieves a page of a user's notifications, newest first
func (r *NotificationRepository) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*model.Notification, error) {
	query := `
		SELECT * FROM notification
		WHERE user_id = $user_id AND expires_on > time::now()
		ORDER BY created_on DESC
		LIMIT $limit START $offset
	`
	vars := map[string]interface{}{
		"user_id": userID,
		"limit":   limit,
		"offset":  offset,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseNotificationsResult(result)
}

// CountForUser returns the number of a user's live notifications
func (r *NotificationRepository) CountForUser(ctx context.Context, userID string) (int, error) {
	query := `SELECT count() AS count FROM notification WHERE user_id = $user_id AND expires_on > time::now() GROUP ALL`
	vars := map[string]interface{}{"user_id": userID}

	return r.countQuery(ctx, query, vars)
}

// CountSince returns the number of a user's live notifications created after
// the given read horizon
func (r *NotificationRepository) CountSince(ctx context.Context, userID string, since time.Time) (int, error) {
	query := `
		SELECT count() AS count FROM notification
		WHERE user_id = $user_id AND expires_on > time::now() AND created_on > $since
		GROUP ALL
	`
	vars := map[string]interface{}{"user_id": userID, "since": since}

	return r.countQuery(ctx, query, vars)
}

// DeleteExpired hard-deletes every notification past its expiry
func (r *NotificationRepository) DeleteExpired(ctx context.Context) error {
	query := `DELETE notification WHERE expires_on <= time::now()`
	return r.db.Execute(ctx, query, nil)
}

func (r *NotificationRepository) countQuery(ctx context.Context, query string, vars map[string]interface{}) (int, error) {
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

// parseNotificationsResult parses a notification list response
func parseNotificationsResult(result interface{}) ([]*model.Notification, error) {
	records, ok := extractQueryResults(result)
	if !ok {
		return []*model.Notification{}, nil
	}

	notifications := make([]*model.Notification, 0, len(records))
	for _, rec := range records {
		if m, ok := rec.(map[string]interface{}); ok {
			notifications = append(notifications, notificationFromMap(m))
		}
	}
	return notifications, nil
}

func notificationFromMap(m map[string]interface{}) *model.Notification {
	n := &model.Notification{
		ID:        extractRecordID(m["id"]),
		UserID:    extractRecordID(m["user_id"]),
		Title:     getString(m, "title"),
		Message:   getString(m, "message"),
		Type:      model.NotificationType(getString(m, "type")),
		Priority:  model.NotificationPriority(getString(m, "priority")),
		ActionURL: getStringPtr(m, "action_url"),
		CreatedOn: getTime(m, "created_on"),
		ExpiresOn: getTime(m, "expires_on"),
	}
	if meta, ok := m["metadata"].(map[string]interface{}); ok {
		n.Metadata = model.NotificationMetadata{
			EntityType:    getString(meta, "entity_type"),
			EntityID:      extractRecordID(meta["entity_id"]),
			Action:        model.EntityAction(getString(meta, "action")),
			ChangedFields: getStringSlice(meta, "changed_fields"),
		}
	}
	return n
}
