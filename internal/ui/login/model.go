package login

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskflow/tui/internal/api"
	"github.com/taskflow/tui/internal/theme"
)

// LoggedInMsg signals the parent that authentication succeeded.
type LoggedInMsg struct {
	Auth *api.AuthResponse
}

// authResultMsg carries the outcome of a login/register request.
type authResultMsg struct {
	auth *api.AuthResponse
	err  error
}

type loginMode int

const (
	modeLogin loginMode = iota
	modeRegister
)

// requestTimeout bounds a single auth request.
const requestTimeout = 15 * time.Second

type formBindings struct {
	name     string
	email    string
	password string
}

// Model is the Bubble Tea model for the login/register screen.
type Model struct {
	client    *api.Client
	mode      loginMode
	form      *huh.Form
	fb        *formBindings
	submitting bool
	errMsg    string
	width     int
	height    int
}

// New creates a new login model.
func New(client *api.Client, width, height int) Model {
	m := Model{
		client: client,
		mode:   modeLogin,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
	m.form = m.buildForm()
	return m
}

// buildForm constructs the huh form for the current mode.
func (m Model) buildForm() *huh.Form {
	fields := []huh.Field{}
	if m.mode == modeRegister {
		fields = append(fields,
			huh.NewInput().
				Title("Name").
				Value(&m.fb.name),
		)
	}
	fields = append(fields,
		huh.NewInput().
			Title("Email").
			Value(&m.fb.email),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.password),
	)

	return huh.NewForm(huh.NewGroup(fields...)).
		WithWidth(48).
		WithShowHelp(false)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Login failed: %v", msg.err)
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		return m, func() tea.Msg { return LoggedInMsg{Auth: msg.auth} }

	case tea.KeyMsg:
		// Tab between login and register before the form is submitted.
		if msg.String() == "ctrl+r" && !m.submitting {
			if m.mode == modeLogin {
				m.mode = modeRegister
			} else {
				m.mode = modeLogin
			}
			m.errMsg = ""
			m.form = m.buildForm()
			return m, m.form.Init()
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted && !m.submitting {
		m.submitting = true
		return m, tea.Batch(cmd, m.submit())
	}

	return m, cmd
}

// submit performs the login or register request in the background.
func (m Model) submit() tea.Cmd {
	mode := m.mode
	fb := *m.fb
	client := m.client

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var (
			auth *api.AuthResponse
			err  error
		)
		if mode == modeRegister {
			auth, err = client.Register(ctx, api.RegisterRequest{
				Name:     fb.name,
				Email:    fb.email,
				Password: fb.password,
			})
		} else {
			auth, err = client.Login(ctx, api.LoginRequest{
				Email:    fb.email,
				Password: fb.password,
			})
		}
		return authResultMsg{auth: auth, err: err}
	}
}

// View renders the login screen.
func (m Model) View() string {
	title := "TaskFlow · Sign in"
	hint := "ctrl+r: switch to register"
	if m.mode == modeRegister {
		title = "TaskFlow · Create account"
		hint = "ctrl+r: switch to sign in"
	}

	body := theme.HeaderStyle.Render(title) + "\n\n" + m.form.View()
	if m.submitting {
		body += "\n" + theme.HelpStyle.Render("Signing in...")
	}
	if m.errMsg != "" {
		body += "\n" + theme.DisconnectedStyle.Render(m.errMsg)
	}
	body += "\n\n" + theme.HelpStyle.Render(hint)

	panel := theme.PanelStyle.Render(body)
	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		panel,
	)
}
