package dashboard

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskflow/tui/internal/api"
	"github.com/taskflow/tui/internal/model"
	"github.com/taskflow/tui/internal/theme"
)

// requestTimeout bounds the combined dashboard fetch.
const requestTimeout = 15 * time.Second

// maxRecentProjects caps how many projects feed the task summary and the
// recent-projects panel.
const maxRecentProjects = 5

// taskSummary aggregates task counts across the sampled projects.
type taskSummary struct {
	Todo    int
	Doing   int
	Done    int
	Overdue int
}

// dashboardLoadedMsg carries the aggregated dashboard data.
type dashboardLoadedMsg struct {
	profile  *model.GamificationProfile
	projects []model.Project
	summary  taskSummary
	err      error
}

// Model is the Bubble Tea model for the overview dashboard: the user's
// gamification summary, their recent projects, and an aggregate task
// breakdown across those projects.
type Model struct {
	client   *api.Client
	profile  *model.GamificationProfile
	projects []model.Project
	summary  taskSummary
	errMsg   string
	width    int
	height   int
}

// New creates a new dashboard model.
func New(client *api.Client, width, height int) Model {
	return Model{
		client: client,
		width:  width,
		height: height,
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Init loads the dashboard data.
func (m Model) Init() tea.Cmd {
	return m.Refresh()
}

// Refresh fetches the profile, the project list, and the task sets of the
// most recent projects. Per-project task failures degrade the summary
// instead of blocking the view.
func (m Model) Refresh() tea.Cmd {
	client := m.client

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		profile, err := client.GamificationProfile(ctx)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		projects, err := client.Projects(ctx)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		recent := projects
		if len(recent) > maxRecentProjects {
			recent = recent[:maxRecentProjects]
		}

		var summary taskSummary
		for _, p := range recent {
			tasks, err := client.TasksByProject(ctx, p.ID)
			if err != nil {
				continue
			}
			summary = tally(summary, tasks)
		}

		return dashboardLoadedMsg{
			profile:  profile,
			projects: recent,
			summary:  summary,
		}
	}
}

// tally folds a project's tasks into the running summary.
func tally(summary taskSummary, tasks []model.Task) taskSummary {
	for _, t := range tasks {
		switch t.Status {
		case model.TaskStatusTodo:
			summary.Todo++
		case model.TaskStatusDoing:
			summary.Doing++
		case model.TaskStatusDone:
			summary.Done++
		}
		if t.IsOverdue {
			summary.Overdue++
		}
	}
	return summary
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.profile = msg.profile
		m.projects = msg.projects
		m.summary = msg.summary
		m.errMsg = ""
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			return m, m.Refresh()
		}
	}

	return m, nil
}

// View renders the profile summary, recent projects, and task breakdown.
func (m Model) View() string {
	if m.errMsg != "" {
		return theme.HelpStyle.Render(m.errMsg)
	}
	if m.profile == nil {
		return theme.HelpStyle.Render("Loading dashboard...")
	}

	p := m.profile
	profilePanel := theme.PanelStyle.Render(fmt.Sprintf(
		"Welcome back, %s\nLevel %d (%s), %d points\nStreak: %d days",
		p.UserName, p.Level, p.LevelName, p.TotalPoints, p.CurrentStreak,
	))

	projectLines := "Recent projects\n"
	if len(m.projects) == 0 {
		projectLines += theme.HelpStyle.Render("No projects yet.")
	}
	for _, project := range m.projects {
		projectLines += fmt.Sprintf("%s (%d members)\n", project.Name, len(project.Members))
	}
	projectPanel := theme.PanelStyle.Render(projectLines)

	s := m.summary
	summaryPanel := theme.PanelStyle.Render(fmt.Sprintf(
		"Tasks across projects\n%s %d  %s %d  %s %d\nOverdue: %d",
		theme.StatusStyle("TODO").Render("TODO"), s.Todo,
		theme.StatusStyle("DOING").Render("DOING"), s.Doing,
		theme.StatusStyle("DONE").Render("DONE"), s.Done,
		s.Overdue,
	))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		profilePanel,
		lipgloss.JoinHorizontal(lipgloss.Top, projectPanel, summaryPanel),
	)
}
