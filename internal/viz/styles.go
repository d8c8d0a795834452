package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles derived from CurrentTheme; rebuilt on every View so theme
// switches take effect immediately.
type styles struct {
	header      lipgloss.Style
	panel       lipgloss.Style
	label       lipgloss.Style
	value       lipgloss.Style
	running     lipgloss.Style
	paused      lipgloss.Style
	recording   lipgloss.Style
	graph       lipgloss.Style
	subtle      lipgloss.Style
	sparkHigh   lipgloss.Style
	sparkMid    lipgloss.Style
	sparkLow    lipgloss.Style
	canvasFrame lipgloss.Style
}

func themeStyles(t Theme) styles {
	return styles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(0, 2).
			Width(44),
		label:       lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:       lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		running:     lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		paused:      lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		recording:   lipgloss.NewStyle().Bold(true).Foreground(t.Error).Blink(true),
		graph:       lipgloss.NewStyle().Foreground(t.Secondary).Padding(1, 0),
		subtle:      lipgloss.NewStyle().Foreground(t.Muted),
		sparkHigh:   lipgloss.NewStyle().Foreground(t.Success),
		sparkMid:    lipgloss.NewStyle().Foreground(t.Warning),
		sparkLow:    lipgloss.NewStyle().Foreground(t.Error),
		canvasFrame: lipgloss.NewStyle().Padding(0, 1),
	}
}

// ProgressBar renders a filled/empty bar for percent in [0, 1].
func (s styles) ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	if percent > 0.8 {
		return s.sparkLow.Render(bar)
	} else if percent > 0.5 {
		return s.sparkMid.Render(bar)
	}
	return s.sparkHigh.Render(bar)
}

// Sparkline renders the last width values as block characters.
func (s styles) Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var result strings.Builder
	for _, v := range values {
		norm := (v - lo) / rng
		idx := int(norm * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		c := string(chars[idx])
		switch {
		case norm > 0.7:
			result.WriteString(s.sparkHigh.Render(c))
		case norm > 0.3:
			result.WriteString(s.sparkMid.Render(c))
		default:
			result.WriteString(s.sparkLow.Render(c))
		}
	}
	return result.String()
}

func (s styles) Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(0, mid-3))
	right := strings.Repeat("─", max(0, width-mid-3))
	return s.subtle.Render(left + " ◆ " + right)
}
