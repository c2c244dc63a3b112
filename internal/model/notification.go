package model

import (
	"encoding/json"
	"time"
)

// NotificationType identifies the kind of event a push notification reports.
type NotificationType string

const (
	NotificationTaskAssigned       NotificationType = "TASK_ASSIGNED"
	NotificationTaskStatusChanged  NotificationType = "TASK_STATUS_CHANGED"
	NotificationTaskCommentAdded   NotificationType = "TASK_COMMENT_ADDED"
	NotificationBadgeEarned        NotificationType = "BADGE_EARNED"
	NotificationLevelUp            NotificationType = "LEVEL_UP"
	NotificationProjectMemberAdded NotificationType = "PROJECT_MEMBER_ADDED"
	NotificationProjectUpdated     NotificationType = "PROJECT_UPDATED"
)

// Notification is a normalized push notification held in the session inbox.
// The server never assigns an identifier to a push frame, so ID is generated
// client-side; Read is likewise a purely client-side flag and is never sent
// back to the server.
type Notification struct {
	// ID is the locally generated unique identifier.
	ID string `json:"id"`

	// Type classifies the event; see the NotificationType constants.
	Type NotificationType `json:"type"`

	// Title is the server-supplied headline.
	Title string `json:"title"`

	// Message is the server-supplied body text.
	Message string `json:"message"`

	// EntityID and EntityType optionally point at the task, comment, or
	// badge the event concerns.
	EntityID   *int64 `json:"entityId,omitempty"`
	EntityType string `json:"entityType,omitempty"`

	// ProjectID and ProjectName optionally scope the event to a project.
	ProjectID   *int64 `json:"projectId,omitempty"`
	ProjectName string `json:"projectName,omitempty"`

	// ActorID and ActorName optionally identify who triggered the event.
	ActorID   *int64 `json:"actorId,omitempty"`
	ActorName string `json:"actorName,omitempty"`

	// Timestamp is when the event occurred; receipt time when the server
	// omits it.
	Timestamp time.Time `json:"timestamp"`

	// Read reports whether the user has acknowledged this notification.
	Read bool `json:"read"`
}

// ProjectEvent is the generic envelope delivered on per-project topics.
// The payload is kept raw; project views decode it based on the event name.
type ProjectEvent struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}
