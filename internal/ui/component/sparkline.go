package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/bonding-curve/internal/ui/style"
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline represents a mini graph of the most recent width values
type Sparkline struct {
	data  []float64
	width int
	color lipgloss.Color
}

// NewSparkline creates a new sparkline component
func NewSparkline(width int) *Sparkline {
	return &Sparkline{
		width: width,
		color: style.DefaultPalette().Primary,
	}
}

// AddDataPoint adds a new data point to the sparkline
func (s *Sparkline) AddDataPoint(value float64) *Sparkline {
	s.data = append(s.data, value)
	// Keep only the last `width` points
	if len(s.data) > s.width {
		s.data = s.data[len(s.data)-s.width:]
	}
	return s
}

// Len returns the number of stored points
func (s *Sparkline) Len() int {
	return len(s.data)
}

// View renders the sparkline with a trend arrow
func (s *Sparkline) View() string {
	blocks := lipgloss.NewStyle().Foreground(s.color).Render(s.blocks())
	return blocks + " " + s.trend()
}

func (s *Sparkline) blocks() string {
	if len(s.data) == 0 {
		return strings.Repeat("▁", s.width)
	}

	lo, hi := s.data[0], s.data[0]
	for _, v := range s.data {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	var b strings.Builder
	for _, v := range s.data {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkChars)-1))
		}
		b.WriteRune(sparkChars[idx])
	}
	// дополняем до ширины
	for i := len(s.data); i < s.width; i++ {
		b.WriteRune(' ')
	}
	return b.String()
}

func (s *Sparkline) trend() string {
	palette := style.DefaultPalette()
	if len(s.data) < 2 {
		return lipgloss.NewStyle().Foreground(palette.TextMuted).Render("→")
	}
	cur, prev := s.data[len(s.data)-1], s.data[len(s.data)-2]
	switch {
	case cur > prev:
		return lipgloss.NewStyle().Foreground(palette.Success).Render("↗")
	case cur < prev:
		return lipgloss.NewStyle().Foreground(palette.Error).Render("↘")
	default:
		return lipgloss.NewStyle().Foreground(palette.TextMuted).Render("→")
	}
}
