package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskflow/tui/internal/api"
	"github.com/taskflow/tui/internal/credential"
	"github.com/taskflow/tui/internal/keys"
	"github.com/taskflow/tui/internal/model"
	"github.com/taskflow/tui/internal/notify"
	"github.com/taskflow/tui/internal/realtime"
	"github.com/taskflow/tui/internal/session"
	"github.com/taskflow/tui/internal/store"
	"github.com/taskflow/tui/internal/theme"
	"github.com/taskflow/tui/internal/ui"
	boardview "github.com/taskflow/tui/internal/ui/board"
	dashview "github.com/taskflow/tui/internal/ui/dashboard"
	gamview "github.com/taskflow/tui/internal/ui/gamification"
	inboxview "github.com/taskflow/tui/internal/ui/inbox"
	loginview "github.com/taskflow/tui/internal/ui/login"
	projectview "github.com/taskflow/tui/internal/ui/projectlist"
)

// toastDuration is how long a toast stays on screen.
const toastDuration = 4 * time.Second

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewDashboard
	ViewProjects
	ViewBoard
	ViewGamification
	ViewInbox
)

// projectEventMsg is bridged from a project topic callback to the UI.
type projectEventMsg struct {
	projectID int64
	event     model.ProjectEvent
}

// toastExpiredMsg clears the toast overlay.
type toastExpiredMsg struct{}

// Model is the root Bubble Tea model that manages view routing, the
// session lifecycle, and the realtime event bridge.
type Model struct {
	currentView ViewState
	layout      ui.Layout
	keys        *keys.KeyMap

	client  *api.Client
	cache   store.Store
	rt      *realtime.Client
	inbox   *notify.Store
	binder  *session.Binder

	loginView   loginview.Model
	dashView    dashview.Model
	projectView projectview.Model
	boardView   boardview.Model
	gamView     gamview.Model
	inboxView   inboxview.Model

	ready       bool
	connected   bool
	unreadCount int
	activeToast *notify.Toast
	user        *model.User
}

// New creates the root application model. An access token already present
// in the keyring skips the login screen; the realtime session then starts
// on the first frame.
func New(
	client *api.Client,
	cache store.Store,
	rt *realtime.Client,
	inbox *notify.Store,
	binder *session.Binder,
) Model {
	k := keys.DefaultKeyMap()

	view := ViewLogin
	if client.Token() != "" {
		view = ViewProjects
	}

	return Model{
		currentView: view,
		keys:        k,
		client:      client,
		cache:       cache,
		rt:          rt,
		inbox:       inbox,
		binder:      binder,
		loginView:   loginview.New(client, 80, 24),
		dashView:    dashview.New(client, 80, 24),
		projectView: projectview.New(client, cache, 80, 24),
		boardView:   boardview.New(client, cache, 80, 24),
		gamView:     gamview.New(client, 80, 24),
		inboxView:   inboxview.New(inbox, 80, 24),
	}
}

// Init starts the initial view and, when a stored session exists, the
// realtime binder.
func (m Model) Init() tea.Cmd {
	if m.currentView == ViewLogin {
		return m.loginView.Init()
	}
	return tea.Batch(
		m.projectView.Init(),
		m.binder.Start(m.client.Token()),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.loginView.SetSize(w, h)
		m.dashView.SetSize(w, h)
		m.projectView.SetSize(w, h)
		m.boardView.SetSize(w, h)
		m.gamView.SetSize(w, h)
		m.inboxView.SetSize(w, h)
		return m.updateActiveView(msg)

	case loginview.LoggedInMsg:
		return m.handleLogin(msg)

	case session.StatusMsg:
		wasConnected := m.connected
		m.connected = msg.Connected
		cmds := []tea.Cmd{m.binder.WaitForNext()}
		// Project subscriptions are not restored by the realtime client
		// across a reconnect; the board's subscription is ours to rebuild.
		if !wasConnected && msg.Connected && m.currentView == ViewBoard {
			cmds = append(cmds, m.subscribeBoard(), m.boardView.Refresh())
		}
		return m, tea.Batch(cmds...)

	case session.NotificationMsg:
		m.unreadCount = m.inbox.UnreadCount()
		return m, m.binder.WaitForNext()

	case session.ToastMsg:
		toast := msg.Toast
		m.activeToast = &toast
		return m, tea.Batch(
			m.binder.WaitForNext(),
			tea.Tick(toastDuration, func(time.Time) tea.Msg {
				return toastExpiredMsg{}
			}),
		)

	case toastExpiredMsg:
		m.activeToast = nil
		return m, nil

	case projectEventMsg:
		// Live update for the open board; other project events are moot
		// once the view has moved on.
		if m.currentView == ViewBoard && m.boardView.ProjectID() == msg.projectID {
			return m, m.boardView.Refresh()
		}
		return m, nil

	case projectview.ProjectSelectedMsg:
		m.currentView = ViewBoard
		cmd := m.boardView.Open(msg.Project)
		return m, tea.Batch(cmd, m.subscribeBoard())

	case boardview.BackMsg:
		m.rt.UnsubscribeFromProject(m.boardView.ProjectID())
		m.currentView = ViewProjects
		return m, m.projectView.Refresh()

	case inboxview.BackMsg:
		m.currentView = ViewProjects
		m.unreadCount = m.inbox.UnreadCount()
		return m, nil

	case tea.KeyMsg:
		if handled, model, cmd := m.handleGlobalKey(msg); handled {
			return model, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleLogin adopts the fresh credential, persists it, and starts the
// realtime session.
func (m Model) handleLogin(msg loginview.LoggedInMsg) (tea.Model, tea.Cmd) {
	auth := msg.Auth
	m.client.SetToken(auth.AccessToken)
	m.user = &auth.User

	// Best-effort persistence; a keyring failure only means the next
	// start asks for a password again.
	_ = credential.Set(credential.KeyAccessToken, auth.AccessToken)
	_ = credential.Set(credential.KeyRefreshToken, auth.RefreshToken)

	m.currentView = ViewProjects
	return m, tea.Batch(
		m.projectView.Init(),
		m.binder.Start(auth.AccessToken),
	)
}

// handleGlobalKey processes keys that work in every authenticated view.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if m.currentView == ViewLogin {
		// The login form owns all keys except a hard quit.
		if msg.String() == "ctrl+c" {
			return true, m, tea.Quit
		}
		return false, m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return true, m, tea.Quit

	case key.Matches(msg, m.keys.Dashboard):
		m.currentView = ViewDashboard
		return true, m, m.dashView.Init()

	case key.Matches(msg, m.keys.Projects):
		if m.currentView == ViewBoard {
			m.rt.UnsubscribeFromProject(m.boardView.ProjectID())
		}
		m.currentView = ViewProjects
		return true, m, m.projectView.Refresh()

	case key.Matches(msg, m.keys.Gamification):
		m.currentView = ViewGamification
		return true, m, m.gamView.Init()

	case key.Matches(msg, m.keys.Inbox):
		m.currentView = ViewInbox
		return true, m, nil

	case msg.String() == "ctrl+l":
		return true, m, m.logout()
	}

	return false, m, nil
}

// logout stops the realtime session, clears stored credentials, and
// returns to the login screen.
func (m Model) logout() tea.Cmd {
	m.binder.Stop()
	m.client.SetToken("")
	m.user = nil
	m.connected = false
	m.unreadCount = 0

	_ = credential.Delete(credential.KeyAccessToken)
	_ = credential.Delete(credential.KeyRefreshToken)

	m.currentView = ViewLogin
	m.loginView = loginview.New(m.client, m.layout.ContentWidth(), m.layout.ContentHeight())
	return m.loginView.Init()
}

// subscribeBoard registers the open project's topic subscription, bridging
// events back onto the UI loop through the binder.
func (m Model) subscribeBoard() tea.Cmd {
	projectID := m.boardView.ProjectID()
	if projectID == 0 {
		return nil
	}
	rt := m.rt
	binder := m.binder

	return func() tea.Msg {
		rt.SubscribeToProject(projectID, func(event model.ProjectEvent) {
			binder.Publish(projectEventMsg{projectID: projectID, event: event})
		})
		return nil
	}
}

// updateActiveView forwards a message to the currently visible view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewDashboard:
		m.dashView, cmd = m.dashView.Update(msg)
	case ViewProjects:
		m.projectView, cmd = m.projectView.Update(msg)
	case ViewBoard:
		m.boardView, cmd = m.boardView.Update(msg)
	case ViewGamification:
		m.gamView, cmd = m.gamView.Update(msg)
	case ViewInbox:
		m.inboxView, cmd = m.inboxView.Update(msg)
	}
	return m, cmd
}

// View renders the active view inside the header/status-bar frame, with
// the toast overlay on top when one is live.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.currentView == ViewLogin {
		return m.loginView.View()
	}

	var content string
	var title string
	switch m.currentView {
	case ViewDashboard:
		title = "TaskFlow · Dashboard"
		content = m.dashView.View()
	case ViewProjects:
		title = "TaskFlow · Projects"
		content = m.projectView.View()
	case ViewBoard:
		title = "TaskFlow · Board"
		content = m.boardView.View()
	case ViewGamification:
		title = "TaskFlow · Gamification"
		content = m.gamView.View()
	case ViewInbox:
		title = "TaskFlow · Notifications"
		content = m.inboxView.View()
	}

	if m.activeToast != nil {
		style := theme.ToastInfoStyle
		if m.activeToast.Level == notify.ToastSuccess {
			style = theme.ToastSuccessStyle
		}
		toast := style.Render(fmt.Sprintf("%s: %s", m.activeToast.Title, m.activeToast.Message))
		content = toast + "\n" + content
	}

	header := m.layout.RenderHeader(title, m.connected, m.unreadCount)
	statusBar := m.layout.RenderStatusBar(
		"d: dashboard · p: projects · g: gamification · n: inbox · r: refresh · ctrl+l: logout · q: quit",
	)
	return m.layout.RenderWithFrame(header, content, statusBar)
}
