package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow/tui/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestProjectRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	older := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	projects := []model.Project{
		{
			ID:          1,
			Name:        "Platform",
			Description: "Infra work",
			Owner:       model.User{ID: 7, Name: "Dana"},
			Members:     []model.User{{ID: 7, Name: "Dana"}, {ID: 8, Name: "Kim"}},
			UpdatedAt:   older,
		},
		{
			ID:        2,
			Name:      "Mobile",
			UpdatedAt: newer,
		},
	}
	require.NoError(t, s.UpsertProjects(ctx, projects))

	got, err := s.GetProjects(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Most recently updated first.
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(1), got[1].ID)
	assert.Equal(t, "Platform", got[1].Name)
	assert.Equal(t, "Dana", got[1].Owner.Name)
	assert.Len(t, got[1].Members, 2)
}

func TestUpsertProjectReplacesExisting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := model.Project{ID: 1, Name: "Before", UpdatedAt: time.Now().UTC()}
	require.NoError(t, s.UpsertProjects(ctx, []model.Project{p}))

	p.Name = "After"
	require.NoError(t, s.UpsertProjects(ctx, []model.Project{p}))

	got, err := s.GetProjects(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "After", got[0].Name)
}

func TestUpsertEmptyBatchIsNoOp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertProjects(ctx, nil))
	require.NoError(t, s.UpsertTasks(ctx, nil))

	projects, err := s.GetProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestTasksByProject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tasks := []model.Task{
		{
			ID:        10,
			ProjectID: 1,
			Title:     "Fix the build",
			Status:    model.TaskStatusDoing,
			Priority:  model.TaskPriorityHigh,
			Reporter:  model.UserRef{ID: 7, Name: "Dana"},
			UpdatedAt: time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        11,
			ProjectID: 1,
			Title:     "Write docs",
			Status:    model.TaskStatusTodo,
			Priority:  model.TaskPriorityLow,
			UpdatedAt: time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        20,
			ProjectID: 2,
			Title:     "Other project task",
			Status:    model.TaskStatusDone,
			UpdatedAt: time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		},
	}
	require.NoError(t, s.UpsertTasks(ctx, tasks))

	got, err := s.GetTasksByProject(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(11), got[0].ID)
	assert.Equal(t, int64(10), got[1].ID)
	assert.Equal(t, model.TaskStatusDoing, got[1].Status)
	assert.Equal(t, "Dana", got[1].Reporter.Name)

	other, err := s.GetTasksByProject(ctx, 2)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, int64(20), other[0].ID)

	empty, err := s.GetTasksByProject(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
