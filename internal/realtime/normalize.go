package realtime

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow/tui/internal/model"
)

// rawNotification mirrors the wire shape of a notification frame. The
// server never sends an id or a read flag; both are client-side concerns.
type rawNotification struct {
	Type        model.NotificationType `json:"type"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	EntityID    *int64                 `json:"entityId"`
	EntityType  string                 `json:"entityType"`
	ProjectID   *int64                 `json:"projectId"`
	ProjectName string                 `json:"projectName"`
	ActorID     *int64                 `json:"actorId"`
	ActorName   string                 `json:"actorName"`
	Timestamp   string                 `json:"timestamp"`
}

// Normalize converts a raw inbound frame body into a Notification, or nil
// when the frame is unusable. Failures are logged and absorbed; nothing
// escapes this boundary. The notification gets a freshly generated id,
// the receipt time when the frame carries no timestamp, and Read=false
// unconditionally.
func Normalize(body []byte, receivedAt time.Time) *model.Notification {
	var raw rawNotification
	if err := json.Unmarshal(body, &raw); err != nil {
		log.Printf("[ws] dropping malformed notification frame: %v", err)
		return nil
	}
	if raw.Type == "" {
		log.Printf("[ws] dropping notification frame without a type")
		return nil
	}

	timestamp := receivedAt
	if raw.Timestamp != "" {
		if parsed, ok := parseTimestamp(raw.Timestamp); ok {
			timestamp = parsed
		}
	}

	return &model.Notification{
		ID:          uuid.NewString(),
		Type:        raw.Type,
		Title:       raw.Title,
		Message:     raw.Message,
		EntityID:    raw.EntityID,
		EntityType:  raw.EntityType,
		ProjectID:   raw.ProjectID,
		ProjectName: raw.ProjectName,
		ActorID:     raw.ActorID,
		ActorName:   raw.ActorName,
		Timestamp:   timestamp,
		Read:        false,
	}
}

// zonelessLayout matches the server's timestamp serialization, which
// carries no zone offset.
const zonelessLayout = "2006-01-02T15:04:05"

// parseTimestamp accepts both RFC3339 and the server's zone-less format.
func parseTimestamp(s string) (time.Time, bool) {
	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		return parsed, true
	}
	if parsed, err := time.Parse(zonelessLayout, s); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}
