package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/vigil/internal/config"
	"github.com/tonhe/vigil/internal/engine"
	"github.com/tonhe/vigil/tui/components"
	"github.com/tonhe/vigil/tui/keys"
	"github.com/tonhe/vigil/tui/styles"
	"github.com/tonhe/vigil/tui/views"
)

// TickMsg triggers a periodic UI refresh to pick up new poll data. The UI
// reads snapshots on its own cadence, independent of any poll cadence.
type TickMsg struct{}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	theme     styles.Theme
	config    *config.Settings
	engine    *engine.Engine
	dashboard views.DashboardView
	width     int
	height    int
}

// NewAppModel creates the root model for the given settings and engine.
func NewAppModel(cfg *config.Settings, eng *engine.Engine) AppModel {
	theme := styles.DefaultTheme
	if t := styles.GetThemeByName(cfg.Theme); t != nil {
		theme = *t
	}
	return AppModel{
		theme:     theme,
		config:    cfg,
		engine:    eng,
		dashboard: views.NewDashboardView(theme),
	}
}

// Init returns the initial command to start the tick loop.
func (m AppModel) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and dispatches to the dashboard view.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Body height = total - 1 (header) - 2 (status bar lines)
		m.dashboard.SetSize(msg.Width, msg.Height-3)
		return m, nil

	case TickMsg:
		m.dashboard.SetState(m.engine.Snapshot())
		return m, tickCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Quit):
			m.engine.Stop()
			return m, tea.Quit
		case key.Matches(msg, keys.DefaultKeyMap.Refresh):
			m.engine.PollNow()
			return m, nil
		case key.Matches(msg, keys.DefaultKeyMap.Clear):
			m.engine.ClearWarnings()
			m.dashboard.SetState(m.engine.Snapshot())
			return m, nil
		}
		var cmd tea.Cmd
		m.dashboard, cmd = m.dashboard.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View composes the header, server cards, and status bar.
func (m AppModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	state := m.engine.Snapshot()

	okCount, warned := 0, 0
	for _, s := range state.Servers {
		if s.Healthy() {
			okCount++
		}
		if s.HadError {
			warned++
		}
	}

	header := components.RenderHeader(m.theme, okCount, len(state.Servers), m.width)

	m.dashboard.SetState(state)
	body := m.dashboard.View()

	statusBar := components.RenderStatusBar(m.theme, state.Timestamp, warned, m.width)

	bodyHeight := m.height - 1 - 2 // 1 header line, 2 status bar lines
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	bodyStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(bodyHeight).
		Background(m.theme.Base00).
		Foreground(m.theme.Base05)

	return lipgloss.JoinVertical(lipgloss.Left, header, bodyStyle.Render(body), statusBar)
}
