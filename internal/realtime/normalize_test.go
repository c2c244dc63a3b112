package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow/tui/internal/model"
)

func TestNormalizeFullFrame(t *testing.T) {
	body := []byte(`{
		"type": "TASK_STATUS_CHANGED",
		"title": "Task moved",
		"message": "'Fix the build' moved to DOING",
		"entityId": 12,
		"entityType": "TASK",
		"projectId": 3,
		"projectName": "Platform",
		"actorId": 8,
		"actorName": "Dana",
		"timestamp": "2026-08-30T09:00:00Z"
	}`)

	n := Normalize(body, time.Now())
	require.NotNil(t, n)

	assert.Equal(t, model.NotificationTaskStatusChanged, n.Type)
	assert.Equal(t, "Task moved", n.Title)
	assert.Equal(t, "'Fix the build' moved to DOING", n.Message)
	require.NotNil(t, n.EntityID)
	assert.Equal(t, int64(12), *n.EntityID)
	assert.Equal(t, "TASK", n.EntityType)
	require.NotNil(t, n.ProjectID)
	assert.Equal(t, int64(3), *n.ProjectID)
	assert.Equal(t, "Platform", n.ProjectName)
	require.NotNil(t, n.ActorID)
	assert.Equal(t, int64(8), *n.ActorID)
	assert.Equal(t, "Dana", n.ActorName)
	assert.Equal(t, time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC), n.Timestamp.UTC())
	assert.False(t, n.Read)
	assert.NotEmpty(t, n.ID)
}

func TestNormalizeGeneratesUniqueIDs(t *testing.T) {
	body := []byte(`{"type":"BADGE_EARNED","title":"Badge!"}`)

	a := Normalize(body, time.Now())
	b := Normalize(body, time.Now())
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNormalizeZonelessTimestamp(t *testing.T) {
	receivedAt := time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC)
	n := Normalize(
		[]byte(`{"type":"LEVEL_UP","title":"Level 3","timestamp":"2026-08-30T10:15:00"}`),
		receivedAt,
	)
	require.NotNil(t, n)
	assert.Equal(t, time.Date(2026, 8, 30, 10, 15, 0, 0, time.UTC), n.Timestamp.UTC())
}

func TestNormalizeMissingTimestampUsesReceiptTime(t *testing.T) {
	receivedAt := time.Date(2026, 8, 31, 12, 30, 0, 0, time.UTC)
	n := Normalize([]byte(`{"type":"LEVEL_UP","title":"Level 3"}`), receivedAt)
	require.NotNil(t, n)
	assert.Equal(t, receivedAt, n.Timestamp)
}

func TestNormalizeUnparseableTimestampUsesReceiptTime(t *testing.T) {
	receivedAt := time.Date(2026, 8, 31, 12, 30, 0, 0, time.UTC)
	n := Normalize(
		[]byte(`{"type":"LEVEL_UP","title":"Level 3","timestamp":"yesterday-ish"}`),
		receivedAt,
	)
	require.NotNil(t, n)
	assert.Equal(t, receivedAt, n.Timestamp)
}

func TestNormalizeRejectsMalformedJSON(t *testing.T) {
	assert.Nil(t, Normalize([]byte(`{"type":`), time.Now()))
	assert.Nil(t, Normalize([]byte(``), time.Now()))
}

func TestNormalizeRejectsMissingType(t *testing.T) {
	assert.Nil(t, Normalize([]byte(`{"title":"no type"}`), time.Now()))
	assert.Nil(t, Normalize([]byte(`{"type":"","title":"empty type"}`), time.Now()))
}
