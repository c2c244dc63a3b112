package gamification

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

// profileLoadedMsg carries the gamification data for the current user.
type profileLoadedMsg struct {
	profile *model.GamificationProfile
	badges  []model.Badge
	ranking []model.RankingEntry
	err     error
}

// requestTimeout bounds the combined profile fetch.
const requestTimeout = 15 * time.Second

// rankingLimit is how many leaderboard rows are shown.
const rankingLimit = 10

// Model is the Bubble Tea model for the gamification view.
type Model struct {
	client  *api.Client
	profile *model.GamificationProfile
	badges  []model.Badge
	ranking []model.RankingEntry
	errMsg  string
	width   int
	height  int
}

// New creates a new gamification model.
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

// Init loads the profile, badges, and leaderboard.
func (m Model) Init() tea.Cmd {
	return m.Refresh()
}

// Refresh fetches the gamification data from the server.
func (m Model) Refresh() tea.Cmd {
	client := m.client

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		profile, err := client.GamificationProfile(ctx)
		if err != nil {
			return profileLoadedMsg{err: err}
		}

		// Badges and ranking are decorative; their failures don't block
		// the profile.
		badges, _ := client.Badges(ctx)
		ranking, _ := client.GlobalRanking(ctx, rankingLimit)

		return profileLoadedMsg{
			profile: profile,
			badges:  badges,
			ranking: ranking,
		}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.profile = msg.profile
		m.badges = msg.badges
		m.ranking = msg.ranking
		m.errMsg = ""
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			return m, m.Refresh()
		}
	}

	return m, nil
}

// View renders the profile panel, recent badges, and leaderboard.
func (m Model) View() string {
	if m.errMsg != "" {
		return theme.HelpStyle.Render(m.errMsg)
	}
	if m.profile == nil {
		return theme.HelpStyle.Render("Loading gamification profile...")
	}

	p := m.profile
	profilePanel := theme.PanelStyle.Render(fmt.Sprintf(
		"%s\nLevel %d (%s)\n\nPoints: %d (%d to next level)\nStreak: %d days (best %d)\nTasks completed: %d\nGlobal rank: #%d",
		theme.HeaderStyle.Render(p.UserName),
		p.Level, p.LevelName,
		p.TotalPoints, p.PointsToNextLevel,
		p.CurrentStreak, p.LongestStreak,
		p.TasksCompleted,
		p.GlobalRankPosition,
	))

	badgeLines := fmt.Sprintf("Badges (%d)\n", p.TotalBadges)
	for _, b := range m.badges {
		badgeLines += fmt.Sprintf("%s %s: %s\n", b.Icon, b.Name, b.Description)
	}
	badgePanel := theme.PanelStyle.Render(badgeLines)

	rankLines := "Leaderboard\n"
	for _, r := range m.ranking {
		line := fmt.Sprintf("#%d %s: %d pts (lvl %d)",
			r.Position, r.UserName, r.TotalPoints, r.Level)
		if r.UserID == p.UserID {
			line = theme.SelectedItemStyle.Render(line)
		}
		rankLines += line + "\n"
	}
	rankPanel := theme.PanelStyle.Render(rankLines)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		profilePanel,
		lipgloss.JoinHorizontal(lipgloss.Top, badgePanel, rankPanel),
	)
}
