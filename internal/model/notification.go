package model

import "time"

// Field length limits for notifications
const (
	NotificationTitleMaxLen   = 100
	NotificationMessageMaxLen = 500
)

// NotificationType categorizes notifications
type NotificationType string

const (
	NotificationTypeContentUpdate NotificationType = "content_update"
	NotificationTypeAnnouncement  NotificationType = "announcement"
	NotificationTypeSystem        NotificationType = "system"
)

// NotificationPriority orders notifications in the feed
type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityNormal NotificationPriority = "normal"
	NotificationPriorityHigh   NotificationPriority = "high"
)

// EntityAction names the curation mutation that produced a notification
type EntityAction string

const (
	EntityActionCreated   EntityAction = "created"
	EntityActionUpdated   EntityAction = "updated"
	EntityActionDeleted   EntityAction = "deleted"
	EntityActionReordered EntityAction = "reordered"
)

// NotificationMetadata ties a notification back to the entity it describes.
// Repeated edits to the same (entity type, entity id, action) within the
// merge window amend ChangedFields on the existing records instead of
// creating duplicates.
type NotificationMetadata struct {
	EntityType    string       `json:"entity_type"` // "category" or "task"
	EntityID      string       `json:"entity_id"`
	Action        EntityAction `json:"action"`
	ChangedFields []string     `json:"changed_fields,omitempty"`
}

// Notification is a user-facing message created by the curation flow.
// Records expire ExpiresOn and are purged by a scheduled job; read state is
// not tracked per record (see User.LastNotificationRead).
type Notification struct {
	ID        string               `json:"id"`
	UserID    string               `json:"user_id"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Type      NotificationType     `json:"type"`
	Priority  NotificationPriority `json:"priority"`
	ActionURL *string              `json:"action_url,omitempty"`
	Metadata  NotificationMetadata `json:"metadata"`
	CreatedOn time.Time            `json:"created_on"`
	ExpiresOn time.Time            `json:"expires_on"`
}

// NotificationFeed is the dashboard feed response
type NotificationFeed struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int             `json:"unread_count"`
	Total         int             `json:"total"`
}

// AnnounceRequest is the admin payload for a manual broadcast
type AnnounceRequest struct {
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	Priority  string  `json:"priority,omitempty"`
	ActionURL *string `json:"action_url,omitempty"`
}

// Validate checks the broadcast payload
func (r *AnnounceRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	} else if len(r.Title) > NotificationTitleMaxLen {
		errs = append(errs, FieldError{Field: "title", Message: "title exceeds maximum length"})
	}
	if r.Message == "" {
		errs = append(errs, FieldError{Field: "message", Message: "message is required"})
	} else if len(r.Message) > NotificationMessageMaxLen {
		errs = append(errs, FieldError{Field: "message", Message: "message exceeds maximum length"})
	}
	if r.Priority != "" {
		switch NotificationPriority(r.Priority) {
		case NotificationPriorityLow, NotificationPriorityNormal, NotificationPriorityHigh:
		default:
			errs = append(errs, FieldError{Field: "priority", Message: "invalid priority"})
		}
	}
	return errs
}
