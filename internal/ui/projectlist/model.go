package projectlist

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskflow/tui/internal/api"
	"github.com/taskflow/tui/internal/model"
	"github.com/taskflow/tui/internal/store"
	"github.com/taskflow/tui/internal/theme"
)

// ProjectSelectedMsg signals the parent that a project was opened.
type ProjectSelectedMsg struct {
	Project model.Project
}

// projectsLoadedMsg carries a fresh (or cached) project list.
type projectsLoadedMsg struct {
	projects []model.Project
	fromCache bool
	err       error
}

// requestTimeout bounds a single list request.
const requestTimeout = 15 * time.Second

// Model is the Bubble Tea model for the project list view.
type Model struct {
	client      *api.Client
	cache       store.Store
	projects    []model.Project
	selectedIdx int
	statusMsg   string
	width       int
	height      int
}

// New creates a new project list model.
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

// Init renders the cached projects immediately and refreshes from the
// server in the background.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCached(), m.Refresh())
}

// Refresh fetches the project list from the server and updates the cache.
func (m Model) Refresh() tea.Cmd {
	client := m.client
	cache := m.cache

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		projects, err := client.Projects(ctx)
		if err != nil {
			return projectsLoadedMsg{err: err}
		}
		if cache != nil {
			if err := cache.UpsertProjects(ctx, projects); err != nil {
				// Cache failures never block the fresh data.
				return projectsLoadedMsg{projects: projects}
			}
		}
		return projectsLoadedMsg{projects: projects}
	}
}

// loadCached reads the last known project list from the local cache.
func (m Model) loadCached() tea.Cmd {
	cache := m.cache
	if cache == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		projects, err := cache.GetProjects(ctx)
		if err != nil || len(projects) == 0 {
			return nil
		}
		return projectsLoadedMsg{projects: projects, fromCache: true}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		// A cached page never overwrites fresh data already on screen.
		if msg.fromCache && len(m.projects) > 0 {
			return m, nil
		}
		m.projects = msg.projects
		if m.selectedIdx >= len(m.projects) && m.selectedIdx > 0 {
			m.selectedIdx = len(m.projects) - 1
		}
		if msg.fromCache {
			m.statusMsg = "Showing cached projects"
		} else {
			m.statusMsg = ""
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.selectedIdx < len(m.projects)-1 {
				m.selectedIdx++
			}
		case "k", "up":
			if m.selectedIdx > 0 {
				m.selectedIdx--
			}
		case "r":
			return m, m.Refresh()
		case "enter":
			if len(m.projects) > 0 {
				project := m.projects[m.selectedIdx]
				return m, func() tea.Msg {
					return ProjectSelectedMsg{Project: project}
				}
			}
		}
	}

	return m, nil
}

// View renders the project list.
func (m Model) View() string {
	if len(m.projects) == 0 {
		empty := "No projects yet."
		if m.statusMsg != "" {
			empty = m.statusMsg
		}
		return theme.HelpStyle.Render(empty)
	}

	var out string
	for i, p := range m.projects {
		line := fmt.Sprintf("%s (%d members)", p.Name, len(p.Members))
		if p.Owner.Name != "" {
			line = fmt.Sprintf("%s, owner %s (%d members)", p.Name, p.Owner.Name, len(p.Members))
		}
		if i == m.selectedIdx {
			out += theme.SelectedItemStyle.Render(line) + "\n"
		} else {
			out += theme.ListItemStyle.Render(line) + "\n"
		}
	}
	if m.statusMsg != "" {
		out += "\n" + theme.HelpStyle.Render(m.statusMsg)
	}
	return out
}
