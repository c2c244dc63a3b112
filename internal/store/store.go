package store

import (
	"context"

	"github.com/taskflow/tui/internal/model"
)

// Store defines the local cache interface for projects and tasks. The
// cache exists so the UI can render the last known state immediately on
// startup while fresh data loads from the server. Notifications are
// deliberately not cached; the inbox is in-memory for the session only.
type Store interface {
	UpsertProjects(ctx context.Context, projects []model.Project) error
	GetProjects(ctx context.Context) ([]model.Project, error)

	UpsertTasks(ctx context.Context, tasks []model.Task) error
	GetTasksByProject(ctx context.Context, projectID int64) ([]model.Task, error)

	Close() error
}
