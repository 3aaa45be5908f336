package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/vigil/tui/styles"
)

// RenderStatusBar renders the two-line footer showing the last read time,
// warning count, and key bindings.
func RenderStatusBar(theme styles.Theme, lastRead time.Time, warned int, width int) string {
	bg := theme.Base01
	bgStyle := lipgloss.NewStyle().Background(bg)
	sep := lipgloss.NewStyle().Foreground(theme.Base03).Background(bg).Render(" | ")

	lastStr := "never"
	if !lastRead.IsZero() {
		lastStr = lastRead.Format("15:04:05")
	}
	lastSeg := lipgloss.NewStyle().Foreground(theme.Base05).Background(bg).
		Render(fmt.Sprintf("updated: %s", lastStr))

	warnColor := theme.Base0B
	warnText := "no warnings"
	if warned > 0 {
		warnColor = theme.Base0A
		warnText = fmt.Sprintf("%d warned", warned)
	}
	warnSeg := lipgloss.NewStyle().Foreground(warnColor).Background(bg).Render(warnText)

	topContent := bgStyle.Render(" ") + lastSeg + sep + warnSeg
	topWidth := lipgloss.Width(topContent)
	if topWidth < width {
		topContent += bgStyle.Render(strings.Repeat(" ", width-topWidth))
	}

	keyStyle := lipgloss.NewStyle().Foreground(theme.Base0D).Background(bg).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.Base04).Background(bg)
	spacer := bgStyle.Render("  ")

	keys := bgStyle.Render(" ") +
		keyStyle.Render("r") + descStyle.Render(":refresh") + spacer +
		keyStyle.Render("c") + descStyle.Render(":clear warnings") + spacer +
		keyStyle.Render("j/k") + descStyle.Render(":scroll") + spacer +
		keyStyle.Render("q") + descStyle.Render(":quit")

	keysWidth := lipgloss.Width(keys)
	if keysWidth < width {
		keys += bgStyle.Render(strings.Repeat(" ", width-keysWidth))
	}

	return lipgloss.JoinVertical(lipgloss.Left, topContent, keys)
}
