package component

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/bonding-curve/internal/ui/style"
)

// HelpBar represents a help bar component showing keyboard shortcuts
type HelpBar struct {
	keyBindings []key.Binding

	keyStyle  lipgloss.Style
	descStyle lipgloss.Style
	sepStyle  lipgloss.Style
}

// NewHelpBar creates a new help bar component
func NewHelpBar(bindings ...key.Binding) *HelpBar {
	palette := style.DefaultPalette()
	return &HelpBar{
		keyBindings: bindings,
		keyStyle:    lipgloss.NewStyle().Foreground(palette.Primary).Bold(true),
		descStyle:   lipgloss.NewStyle().Foreground(palette.TextMuted),
		sepStyle:    lipgloss.NewStyle().Foreground(palette.TextMuted),
	}
}

// View renders enabled bindings as "key description" items
func (h *HelpBar) View() string {
	items := make([]string, 0, len(h.keyBindings))
	for _, binding := range h.keyBindings {
		if !binding.Enabled() {
			continue
		}
		help := binding.Help()
		if help.Key == "" || help.Desc == "" {
			continue
		}
		items = append(items, h.keyStyle.Render(help.Key)+" "+h.descStyle.Render(help.Desc))
	}
	return strings.Join(items, h.sepStyle.Render(" • "))
}
