package styles

import "github.com/charmbracelet/lipgloss"

// Styles holds all themed lipgloss styles for the application.
type Styles struct {
	// Header / footer
	Header       lipgloss.Style
	HeaderTitle  lipgloss.Style
	Footer       lipgloss.Style
	FooterKey    lipgloss.Style
	FooterDesc   lipgloss.Style

	// Server cards
	CardTitle    lipgloss.Style
	CardTitleSel lipgloss.Style
	CardURL      lipgloss.Style
	CardWaiting  lipgloss.Style
	CardError    lipgloss.Style
	CardWarning  lipgloss.Style

	// Status dots
	DotHealthy lipgloss.Style
	DotErrored lipgloss.Style
	DotWarned  lipgloss.Style

	// Metric rows
	MetricLabel lipgloss.Style
	MetricUnit  lipgloss.Style
	MetricGood  lipgloss.Style
	MetricBad   lipgloss.Style

	// Sparkline
	Sparkline lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(theme Theme) *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().
			Foreground(theme.Base05).
			Background(theme.Base01).
			Bold(true).
			Padding(0, 1),
		HeaderTitle: lipgloss.NewStyle().
			Foreground(theme.Base0D).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Base04).
			Background(theme.Base01).
			Padding(0, 1),
		FooterKey: lipgloss.NewStyle().
			Foreground(theme.Base0D).
			Bold(true),
		FooterDesc: lipgloss.NewStyle().
			Foreground(theme.Base04),

		CardTitle: lipgloss.NewStyle().
			Foreground(theme.Base06).
			Bold(true),
		CardTitleSel: lipgloss.NewStyle().
			Foreground(theme.Base06).
			Background(theme.Base02).
			Bold(true),
		CardURL: lipgloss.NewStyle().
			Foreground(theme.Base03),
		CardWaiting: lipgloss.NewStyle().
			Foreground(theme.Base03).
			Italic(true),
		CardError: lipgloss.NewStyle().
			Foreground(theme.Base08),
		CardWarning: lipgloss.NewStyle().
			Foreground(theme.Base0A),

		DotHealthy: lipgloss.NewStyle().
			Foreground(theme.Base0B),
		DotErrored: lipgloss.NewStyle().
			Foreground(theme.Base08),
		DotWarned: lipgloss.NewStyle().
			Foreground(theme.Base0A),

		MetricLabel: lipgloss.NewStyle().
			Foreground(theme.Base04),
		MetricUnit: lipgloss.NewStyle().
			Foreground(theme.Base03),
		MetricGood: lipgloss.NewStyle().
			Foreground(theme.Base0B),
		MetricBad: lipgloss.NewStyle().
			Foreground(theme.Base08).
			Bold(true),

		Sparkline: lipgloss.NewStyle().
			Foreground(theme.Base0C),
	}
}
