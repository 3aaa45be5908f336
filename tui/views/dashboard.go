package views

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tonhe/vigil/internal/engine"
	"github.com/tonhe/vigil/internal/metric"
	"github.com/tonhe/vigil/tui/components"
	"github.com/tonhe/vigil/tui/keys"
	"github.com/tonhe/vigil/tui/styles"
)

// Column width constants.
const (
	colLabel    = 24
	colValue    = 16
	colSparkMin = 12
	colSparkMax = 40
)

// DashboardView renders one card per monitored server: a status line plus
// a row per metric with value and sparkline.
type DashboardView struct {
	theme  styles.Theme
	sty    *styles.Styles
	state  engine.DashboardState
	offset int
	width  int
	height int
}

// NewDashboardView creates a new DashboardView with the given theme.
func NewDashboardView(theme styles.Theme) DashboardView {
	return DashboardView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// Update handles scrolling.
func (v DashboardView) Update(msg tea.Msg) (DashboardView, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Up):
			if v.offset > 0 {
				v.offset--
			}
		case key.Matches(msg, keys.DefaultKeyMap.Down):
			v.offset++
		}
	}
	return v, nil
}

// SetState replaces the dashboard data with a fresh snapshot.
func (v *DashboardView) SetState(state engine.DashboardState) {
	v.state = state
}

// SetSize updates the available dimensions for the view.
func (v *DashboardView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// View renders all server cards, windowed by the scroll offset.
func (v DashboardView) View() string {
	if len(v.state.Servers) == 0 {
		return v.sty.CardWaiting.Render("No servers configured. Edit servers.yaml")
	}

	var lines []string
	for i, snap := range v.state.Servers {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, v.renderCard(snap)...)
	}

	visible := v.height
	if visible < 1 {
		visible = 1
	}
	maxOffset := len(lines) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	offset := v.offset
	if offset > maxOffset {
		offset = maxOffset
	}
	end := offset + visible
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[offset:end], "\n")
}

// renderCard renders the lines for one server: a header line followed by
// one row per metric.
func (v DashboardView) renderCard(snap engine.ServerSnapshot) []string {
	var lines []string
	lines = append(lines, v.renderCardHeader(snap))

	if snap.Waiting || (snap.Err != "" && len(snap.Metrics) == 0) {
		return lines
	}
	for _, m := range snap.Metrics {
		lines = append(lines, v.renderMetricRow(m))
	}
	return lines
}

func (v DashboardView) renderCardHeader(snap engine.ServerSnapshot) string {
	var dot, suffix string
	switch {
	case snap.Waiting:
		dot = v.sty.CardWaiting.Render("○")
		suffix = v.sty.CardWaiting.Render("waiting...")
	case snap.Err != "":
		dot = v.sty.DotErrored.Render("●")
		suffix = v.sty.CardError.Render(snap.Err)
	case snap.HadError:
		// Healthy now, but it failed at least once since the last clear.
		dot = v.sty.DotWarned.Render("●")
		suffix = v.sty.CardWarning.Render("recovered (press c to clear)")
	default:
		dot = v.sty.DotHealthy.Render("●")
	}

	name := v.sty.CardTitle.Render(snap.Name)
	parts := []string{dot, name}
	if snap.URL != "" {
		parts = append(parts, v.sty.CardURL.Render(snap.URL))
	}
	if snap.Version != "" {
		parts = append(parts, v.sty.CardURL.Render("v"+snap.Version))
	}
	if suffix != "" {
		parts = append(parts, suffix)
	}
	return strings.Join(parts, "  ")
}

// renderMetricRow renders one metric: label, value+unit, sparkline.
func (v DashboardView) renderMetricRow(m metric.Metric) string {
	label := v.sty.MetricLabel.Render(padRight(truncate(m.Label, colLabel-1), colLabel))

	valText := metric.FormatValue(m.Value)
	if m.Unit != "" {
		valText += " " + m.Unit
	}
	valStyle := v.sty.MetricGood
	if metric.ColorFor(m) == metric.ColorRed {
		valStyle = v.sty.MetricBad
	}
	value := valStyle.Render(padLeft(truncate(valText, colValue), colValue))

	row := fmt.Sprintf("  %s%s", label, value)

	if len(m.Sparkline) > 1 {
		sparkWidth := v.width - colLabel - colValue - 6
		if sparkWidth > colSparkMax {
			sparkWidth = colSparkMax
		}
		if sparkWidth >= colSparkMin {
			row += "  " + v.sty.Sparkline.Render(components.Sparkline(m.Sparkline, sparkWidth))
		}
	}
	return row
}

func padRight(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func padLeft(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
