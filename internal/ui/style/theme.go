package style

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles of the curve simulator screen.
type Theme struct {
	Title    lipgloss.Style
	Panel    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Buy      lipgloss.Style
	Sell     lipgloss.Style
	Error    lipgloss.Style
	Lockdown lipgloss.Style
	Muted    lipgloss.Style
}

// NewTheme creates simulator styles with the given palette
func NewTheme(palette Palette) Theme {
	return Theme{
		Title: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true).
			MarginBottom(1),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Primary).
			Padding(0, 2),

		Label: lipgloss.NewStyle().
			Foreground(palette.TextSecondary).
			Width(18),

		Value: lipgloss.NewStyle().
			Foreground(palette.Text).
			Bold(true),

		Buy:  lipgloss.NewStyle().Foreground(palette.Buy).Bold(true),
		Sell: lipgloss.NewStyle().Foreground(palette.Sell).Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(palette.Error),

		Lockdown: lipgloss.NewStyle().
			Foreground(palette.Background).
			Background(palette.Warning).
			Bold(true).
			Padding(0, 1),

		Muted: lipgloss.NewStyle().
			Foreground(palette.TextMuted),
	}
}
