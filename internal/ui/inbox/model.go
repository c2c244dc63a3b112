package inbox

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskflow/tui/internal/notify"
	"github.com/taskflow/tui/internal/theme"
)

// BackMsg signals the parent to close the inbox.
type BackMsg struct{}

// Model is the Bubble Tea model for the notification inbox (the bell).
// It renders directly from the notification store's snapshot; arrival of
// new notifications is signalled by the parent re-rendering.
type Model struct {
	store       *notify.Store
	selectedIdx int
	width       int
	height      int
}

// New creates a new inbox model backed by the given notification store.
func New(store *notify.Store, width, height int) Model {
	return Model{
		store:  store,
		width:  width,
		height: height,
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	notifications := m.store.Notifications()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.selectedIdx < len(notifications)-1 {
				m.selectedIdx++
			}
		case "k", "up":
			if m.selectedIdx > 0 {
				m.selectedIdx--
			}
		case "enter":
			if m.selectedIdx < len(notifications) {
				m.store.MarkAsRead(notifications[m.selectedIdx].ID)
			}
		case "a":
			m.store.MarkAllAsRead()
		case "x":
			m.store.ClearAll()
			m.selectedIdx = 0
		case "esc":
			return m, func() tea.Msg { return BackMsg{} }
		}
	}

	return m, nil
}

// View renders the inbox, newest first.
func (m Model) View() string {
	notifications := m.store.Notifications()
	if len(notifications) == 0 {
		return theme.HelpStyle.Render("No notifications.")
	}

	header := fmt.Sprintf("Notifications (%d unread)\n\n", m.store.UnreadCount())

	var out string
	for i, n := range notifications {
		marker := " "
		title := n.Title
		if !n.Read {
			marker = theme.UnreadStyle.Render("●")
			title = theme.UnreadStyle.Render(title)
		}
		line := fmt.Sprintf("%s %s  %s: %s",
			marker,
			n.Timestamp.Format("15:04"),
			title,
			n.Message,
		)
		if i == m.selectedIdx {
			out += theme.SelectedItemStyle.Render(line) + "\n"
		} else {
			out += theme.ListItemStyle.Render(line) + "\n"
		}
	}

	hints := theme.HelpStyle.Render("enter: mark read · a: mark all read · x: clear · esc: back")
	return header + out + "\n" + hints
}
