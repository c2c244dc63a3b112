package board

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskflow/tui/internal/api"
	"github.com/taskflow/tui/internal/model"
	"github.com/taskflow/tui/internal/store"
	"github.com/taskflow/tui/internal/theme"
)

// BackMsg signals the parent to leave the board view.
type BackMsg struct{}

// tasksLoadedMsg carries the task set for the open project.
type tasksLoadedMsg struct {
	tasks     []model.Task
	fromCache bool
	err       error
}

// taskMovedMsg carries the outcome of a status change.
type taskMovedMsg struct {
	task *model.Task
	err  error
}

// requestTimeout bounds a single board request.
const requestTimeout = 15 * time.Second

// columns is the fixed Kanban column order.
var columns = []model.TaskStatus{
	model.TaskStatusTodo,
	model.TaskStatusDoing,
	model.TaskStatusDone,
}

// Model is the Bubble Tea model for the per-project Kanban board.
type Model struct {
	client  *api.Client
	cache   store.Store
	project model.Project

	tasks       []model.Task
	columnIdx   int
	selectedIdx int
	statusMsg   string
	width       int
	height      int
}

// New creates a new board model.
func New(client *api.Client, cache store.Store, width, height int) Model {
	return Model{
		client: client,
		cache:  cache,
		width:  width,
		height: height,
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Open points the board at a project and loads its tasks, cached state
// first.
func (m *Model) Open(project model.Project) tea.Cmd {
	m.project = project
	m.tasks = nil
	m.columnIdx = 0
	m.selectedIdx = 0
	m.statusMsg = ""
	return tea.Batch(m.loadCached(), m.Refresh())
}

// ProjectID returns the id of the currently open project, or 0 when no
// project is open.
func (m Model) ProjectID() int64 {
	return m.project.ID
}

// Refresh fetches the open project's tasks from the server and updates
// the cache.
func (m Model) Refresh() tea.Cmd {
	client := m.client
	cache := m.cache
	projectID := m.project.ID
	if projectID == 0 {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		tasks, err := client.TasksByProject(ctx, projectID)
		if err != nil {
			return tasksLoadedMsg{err: err}
		}
		if cache != nil {
			_ = cache.UpsertTasks(ctx, tasks)
		}
		return tasksLoadedMsg{tasks: tasks}
	}
}

// loadCached reads the last known task set from the local cache.
func (m Model) loadCached() tea.Cmd {
	cache := m.cache
	projectID := m.project.ID
	if cache == nil || projectID == 0 {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		tasks, err := cache.GetTasksByProject(ctx, projectID)
		if err != nil || len(tasks) == 0 {
			return nil
		}
		return tasksLoadedMsg{tasks: tasks, fromCache: true}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		if msg.fromCache && len(m.tasks) > 0 {
			return m, nil
		}
		m.tasks = msg.tasks
		m.clampSelection()
		if msg.fromCache {
			m.statusMsg = "Showing cached tasks"
		} else {
			m.statusMsg = ""
		}
		return m, nil

	case taskMovedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.statusMsg = ""
		return m, m.Refresh()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		if m.columnIdx > 0 {
			m.columnIdx--
			m.selectedIdx = 0
		}
	case "l", "right":
		if m.columnIdx < len(columns)-1 {
			m.columnIdx++
			m.selectedIdx = 0
		}
	case "j", "down":
		if m.selectedIdx < len(m.columnTasks(columns[m.columnIdx]))-1 {
			m.selectedIdx++
		}
	case "k", "up":
		if m.selectedIdx > 0 {
			m.selectedIdx--
		}
	case "m":
		return m, m.moveSelected()
	case "r":
		return m, m.Refresh()
	case "esc":
		return m, func() tea.Msg { return BackMsg{} }
	}
	return m, nil
}

// moveSelected advances the selected task to the next Kanban column.
func (m Model) moveSelected() tea.Cmd {
	tasks := m.columnTasks(columns[m.columnIdx])
	if m.selectedIdx >= len(tasks) || m.columnIdx >= len(columns)-1 {
		return nil
	}
	task := tasks[m.selectedIdx]
	next := columns[m.columnIdx+1]
	client := m.client

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		updated, err := client.UpdateTaskStatus(ctx, task.ID, next)
		return taskMovedMsg{task: updated, err: err}
	}
}

// columnTasks filters the loaded tasks down to one column.
func (m Model) columnTasks(status model.TaskStatus) []model.Task {
	var out []model.Task
	for _, t := range m.tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

func (m *Model) clampSelection() {
	count := len(m.columnTasks(columns[m.columnIdx]))
	if m.selectedIdx >= count && m.selectedIdx > 0 {
		m.selectedIdx = count - 1
	}
}

// View renders the three-column board.
func (m Model) View() string {
	colWidth := m.width/len(columns) - 2
	if colWidth < 16 {
		colWidth = 16
	}

	rendered := make([]string, 0, len(columns))
	for ci, status := range columns {
		header := theme.StatusStyle(string(status)).Render(string(status))
		body := header + "\n\n"

		for ti, t := range m.columnTasks(status) {
			line := fmt.Sprintf("%s %s",
				theme.PriorityStyle(string(t.Priority)).Render("●"),
				t.Title,
			)
			if ci == m.columnIdx && ti == m.selectedIdx {
				body += theme.SelectedItemStyle.Render(line) + "\n"
			} else {
				body += theme.ListItemStyle.Render(line) + "\n"
			}
		}

		rendered = append(rendered, lipgloss.NewStyle().
			Width(colWidth).
			Render(body))
	}

	view := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	if m.statusMsg != "" {
		view += "\n" + theme.HelpStyle.Render(m.statusMsg)
	}
	return view
}
