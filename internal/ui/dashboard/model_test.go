package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskflow/tui/internal/model"
)

func TestTally(t *testing.T) {
	tasks := []model.Task{
		{Status: model.TaskStatusTodo},
		{Status: model.TaskStatusTodo, IsOverdue: true},
		{Status: model.TaskStatusDoing},
		{Status: model.TaskStatusDone},
		{Status: model.TaskStatusDone},
	}

	got := tally(taskSummary{}, tasks)

	assert.Equal(t, 2, got.Todo)
	assert.Equal(t, 1, got.Doing)
	assert.Equal(t, 2, got.Done)
	assert.Equal(t, 1, got.Overdue)
}

func TestTallyAccumulatesAcrossProjects(t *testing.T) {
	first := tally(taskSummary{}, []model.Task{{Status: model.TaskStatusTodo}})
	second := tally(first, []model.Task{{Status: model.TaskStatusDone, IsOverdue: true}})

	assert.Equal(t, 1, second.Todo)
	assert.Equal(t, 1, second.Done)
	assert.Equal(t, 1, second.Overdue)
}

func TestUpdateAppliesLoadedData(t *testing.T) {
	m := New(nil, 80, 24)

	profile := &model.GamificationProfile{UserName: "Dana", Level: 3, LevelName: "Contributor"}
	m, _ = m.Update(dashboardLoadedMsg{
		profile:  profile,
		projects: []model.Project{{ID: 1, Name: "Platform"}},
		summary:  taskSummary{Todo: 4, Done: 2},
	})

	view := m.View()
	assert.Contains(t, view, "Dana")
	assert.Contains(t, view, "Platform")
	assert.Contains(t, view, "Overdue: 0")
}

func TestUpdateKeepsDataOnError(t *testing.T) {
	m := New(nil, 80, 24)
	m, _ = m.Update(dashboardLoadedMsg{err: assert.AnError})

	assert.Contains(t, m.View(), "Error")
}
