package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/vigil/tui/styles"
)

// RenderHeader renders the top header bar with app name and server health
// summary.
func RenderHeader(theme styles.Theme, okCount, totalCount, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Base0D).
		Background(theme.Base01).
		Bold(true).
		Render("vigil")

	healthColor := theme.Base0B
	if okCount < totalCount {
		healthColor = theme.Base0A
	}
	health := lipgloss.NewStyle().
		Foreground(healthColor).
		Background(theme.Base01).
		Render(fmt.Sprintf("%d/%d healthy", okCount, totalCount))

	title := lipgloss.NewStyle().
		Foreground(theme.Base05).
		Background(theme.Base01).
		Render("server monitor")

	content := fmt.Sprintf(" %s  |  %s  |  %s ", left, title, health)

	return lipgloss.NewStyle().
		Background(theme.Base01).
		Width(width).
		Render(content)
}
