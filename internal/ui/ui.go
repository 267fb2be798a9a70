package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/tunestats/internal/auth"
	"github.com/desertthunder/tunestats/internal/models"
	"github.com/desertthunder/tunestats/internal/session"
	"github.com/desertthunder/tunestats/internal/stats"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LandingView ViewState = iota
	LoginView
	DashboardView
)

func (v ViewState) String() string {
	switch v {
	case LandingView:
		return "landing"
	case LoginView:
		return "login"
	case DashboardView:
		return "dashboard"
	default:
		return ""
	}
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	provider  *auth.Provider
	updates   <-chan models.SessionState
	view      ViewState
	state     models.SessionState
	theme     models.Platform
	selected  models.Platform
	busy      bool
	loginErr  error
	tab       int
	dashboard models.Dashboard
	lists     []list.Model
	width     int
	height    int
	spinner   spinner.Model
	help      help.Model
	keys      keyMap
}

// NewModel creates a TUI model around the provider mounted in ctx.
//
// The model stops receiving session updates when ctx is done.
func NewModel(ctx context.Context) (*Model, error) {
	provider, err := auth.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	return &Model{
		ctx:      ctx,
		provider: provider,
		updates:  provider.Watch(ctx),
		view:     LandingView,
		state:    provider.State(),
		theme:    models.Spotify,
		selected: models.Spotify,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:     help.New(),
		keys:     newKeyMap(),
		width:    80,
		height:   24,
	}, nil
}

// CurrentView returns the view being shown.
func (m *Model) CurrentView() ViewState { return m.view }

// Init restores the remembered session and starts listening for session changes.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.start(), m.waitForSession())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for i := range m.lists {
			m.lists[i].SetSize(m.listSize())
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.help) {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

		switch m.view {
		case LandingView:
			return m.handleLandingKeys(msg)
		case LoginView:
			return m.handleLoginKeys(msg)
		case DashboardView:
			return m.handleDashboardKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSessionStarted:
		m.applySession(msg.data.(models.SessionState))
		return m, nil

	case MsgSessionChanged:
		m.applySession(msg.data.(models.SessionState))
		return m, m.waitForSession()

	case MsgLoginFinished:
		result := msg.data.(loginResult)
		m.busy = false
		if result.err != nil && !errors.Is(result.err, session.ErrLoginSuperseded) {
			m.loginErr = result.err
		}
		return m, nil

	case MsgWatchClosed:
		return m, nil
	}

	return m, nil
}

// applySession records state and moves between views in reaction to it.
func (m *Model) applySession(state models.SessionState) {
	m.state = state
	if state.IsLoading {
		return
	}

	switch {
	case state.IsAuthenticated() && m.view != DashboardView:
		m.openDashboard(state.User)
	case !state.IsAuthenticated() && m.view == DashboardView:
		m.view = LandingView
		m.lists = nil
		m.tab = 0
	}
}

func (m *Model) openDashboard(user *models.User) {
	d, err := stats.ForUser(user)
	if err != nil {
		m.loginErr = err
		return
	}

	m.dashboard = d
	w, h := m.listSize()
	m.lists = make([]list.Model, len(stats.Sections))
	for i, section := range stats.Sections {
		m.lists[i] = newSectionList(d, section, w, h)
	}

	m.theme = user.Platform()
	m.loginErr = nil
	m.busy = false
	m.tab = 0
	m.view = DashboardView
}

func (m *Model) handleLandingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.theme):
		m.theme = m.theme.Toggle()
	case key.Matches(msg, m.keys.spotify):
		m.openLogin(models.Spotify)
	case key.Matches(msg, m.keys.apple):
		m.openLogin(models.Apple)
	case key.Matches(msg, m.keys.enter):
		m.openLogin(m.theme)
	}
	return m, nil
}

func (m *Model) openLogin(platform models.Platform) {
	m.selected = platform
	m.theme = platform
	m.loginErr = nil
	m.view = LoginView
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.back):
		m.view = LandingView
		m.loginErr = nil
	case key.Matches(msg, m.keys.left), key.Matches(msg, m.keys.right):
		m.selected = m.selected.Toggle()
		m.theme = m.selected
	case key.Matches(msg, m.keys.spotify):
		m.selected, m.theme = models.Spotify, models.Spotify
	case key.Matches(msg, m.keys.apple):
		m.selected, m.theme = models.Apple, models.Apple
	case key.Matches(msg, m.keys.enter):
		m.busy = true
		m.loginErr = nil
		return m, tea.Batch(m.spinner.Tick, m.login(m.selected))
	}
	return m, nil
}

func (m *Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.logout):
		return m, m.logout()
	case key.Matches(msg, m.keys.theme):
		m.theme = m.theme.Toggle()
		return m, nil
	case key.Matches(msg, m.keys.right):
		m.tab = (m.tab + 1) % len(stats.Sections)
		return m, nil
	case key.Matches(msg, m.keys.left):
		m.tab = (m.tab + len(stats.Sections) - 1) % len(stats.Sections)
		return m, nil
	}

	if m.tab < len(m.lists) {
		var cmd tea.Cmd
		m.lists[m.tab], cmd = m.lists[m.tab].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) start() tea.Cmd {
	return func() tea.Msg {
		return sessionStartedMsg(m.provider.Start(m.ctx))
	}
}

func (m *Model) waitForSession() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		state, ok := <-updates
		if !ok {
			return watchClosedMsg()
		}
		return sessionChangedMsg(state)
	}
}

func (m *Model) login(platform models.Platform) tea.Cmd {
	return func() tea.Msg {
		user, err := m.provider.Login(m.ctx, platform)
		return loginFinishedMsg(user, err)
	}
}

func (m *Model) logout() tea.Cmd {
	return func() tea.Msg {
		m.provider.Logout(m.ctx)
		return nil
	}
}

func (m *Model) listSize() (int, int) {
	return max(m.width-4, 20), max(m.height-14, 5)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LandingView:
		return m.renderLanding()
	case LoginView:
		return m.renderLogin()
	case DashboardView:
		return m.renderDashboard()
	default:
		return ""
	}
}

func (m *Model) renderLanding() string {
	p := paletteFor(m.theme)

	title := p.title.Render("♪ TuneStats")
	pitch := "Discover your music listening habits.\nTop tracks, top artists and the genres you keep coming back to."

	status := fmt.Sprintf("Theme: %s", p.accent.Render(m.theme.Label()))
	if m.state.IsLoading {
		status = fmt.Sprintf("%s Checking for a saved session...", m.spinner.View())
	}

	keys := []key.Binding{m.keys.spotify, m.keys.apple, m.keys.theme, m.keys.quit}
	if m.help.ShowAll {
		return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, pitch, status, m.help.FullHelpView(m.keys.FullHelp()))
	}
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, pitch, status, m.help.ShortHelpView(keys))
}

func (m *Model) renderLogin() string {
	p := paletteFor(m.selected)

	title := p.title.Render("Connect your music")

	tabs := make([]string, len(models.Platforms))
	for i, platform := range models.Platforms {
		if platform == m.selected {
			tabs[i] = p.active.Render(platform.Label())
		} else {
			tabs[i] = p.tab.Render(platform.Label())
		}
	}

	body := fmt.Sprintf("Sign in with %s to see your listening stats.", p.accent.Render(m.selected.Label()))

	var status string
	switch {
	case m.busy:
		status = fmt.Sprintf("%s Connecting to %s...", m.spinner.View(), m.selected.Label())
	case m.loginErr != nil:
		status = p.err.Render(fmt.Sprintf("✗ %v", m.loginErr))
	}

	keys := []key.Binding{m.keys.left, m.keys.enter, m.keys.back}
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n\n%s",
		title, lipgloss.JoinHorizontal(lipgloss.Top, tabs...), body, status, m.help.ShortHelpView(keys))
}

func (m *Model) renderDashboard() string {
	p := paletteFor(m.theme)
	user := m.state.User
	if user == nil {
		return p.warn.Render("Not signed in")
	}

	header := p.title.Render(fmt.Sprintf("%s's listening stats", user.Name())) +
		"\n" + p.help.Render(fmt.Sprintf("Connected with %s", user.Platform().Label()))

	d := m.dashboard
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		p.card.Render(fmt.Sprintf("Listening time\n%s", p.ok.Render(stats.FormatMinutes(d.Overview.TotalMinutes)))),
		p.card.Render(fmt.Sprintf("Tracks played\n%s", p.ok.Render(fmt.Sprint(d.Overview.TotalTracks)))),
		p.card.Render(fmt.Sprintf("Top genre\n%s", p.ok.Render(d.Overview.TopGenre))),
		p.card.Render(fmt.Sprintf("Avg session\n%s", p.ok.Render(d.Overview.AvgSessionLength))),
	)

	tabs := make([]string, len(stats.Sections))
	for i, section := range stats.Sections {
		if i == m.tab {
			tabs[i] = p.active.Render(section.Title())
		} else {
			tabs[i] = p.tab.Render(section.Title())
		}
	}

	var body string
	if m.tab < len(m.lists) {
		body = m.lists[m.tab].View()
	}

	keys := []key.Binding{m.keys.left, m.keys.right, m.keys.theme, m.keys.logout, m.keys.quit}
	return strings.Join([]string{
		header,
		cards,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		body,
		m.help.ShortHelpView(keys),
	}, "\n\n")
}
