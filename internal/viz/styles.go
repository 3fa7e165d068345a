package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	StatusPlaying = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	// Sections whose final strain exceeds the material limit.
	Danger = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ff4444"))

	Safe = lipgloss.NewStyle().Foreground(lipgloss.Color("#dddddd"))

	BarHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	BarMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	BarLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5577ff"))
)

// Bar renders a horizontal bar for fraction in [0,1].
func Bar(fraction float64, width int, danger bool) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	switch {
	case danger:
		return Danger.Render(bar)
	case fraction > 0.8:
		return BarHigh.Render(bar)
	case fraction > 0.4:
		return BarMid.Render(bar)
	}
	return BarLow.Render(bar)
}

// Sparkline renders values into width cells, sampling evenly.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo

	var b strings.Builder
	for i := 0; i < width; i++ {
		idx := i * len(values) / width
		if idx >= len(values) {
			idx = len(values) - 1
		}
		level := 0
		if span > 0 {
			level = int((values[idx] - lo) / span * float64(len(chars)-1))
		}
		b.WriteRune(chars[level])
	}
	return b.String()
}
