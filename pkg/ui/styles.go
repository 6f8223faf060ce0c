package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/statdash/pkg/model"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Dracula-inspired, consumed as plain data by the views
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorBg          = lipgloss.Color("#282A36")
	ColorBgSubtle    = lipgloss.Color("#363949")
	ColorBgHighlight = lipgloss.Color("#44475A")
	ColorText        = lipgloss.Color("#F8F8F2")
	ColorSubtext     = lipgloss.Color("#BFBFBF")
	ColorMuted       = lipgloss.Color("#6272A4")

	ColorPrimary = lipgloss.Color("#BD93F9")
	ColorInfo    = lipgloss.Color("#8BE9FD")
	ColorSuccess = lipgloss.Color("#50FA7B")
	ColorWarning = lipgloss.Color("#FFB86C")
	ColorDanger  = lipgloss.Color("#FF5555")
)

// Theme bundles the renderer and the colors used by every view.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.TerminalColor
	Secondary lipgloss.TerminalColor
	Text      lipgloss.TerminalColor
	Subtext   lipgloss.TerminalColor
	Muted     lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
	Focus     lipgloss.TerminalColor
	Success   lipgloss.TerminalColor
	Warning   lipgloss.TerminalColor
	Danger    lipgloss.TerminalColor
	Info      lipgloss.TerminalColor
}

// DefaultTheme returns the dashboard theme bound to r. A nil renderer uses
// lipgloss' default renderer.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Theme{
		Renderer:  r,
		Primary:   ColorPrimary,
		Secondary: ColorMuted,
		Text:      ColorText,
		Subtext:   ColorSubtext,
		Muted:     ColorMuted,
		Border:    ColorBgHighlight,
		Focus:     ColorPrimary,
		Success:   ColorSuccess,
		Warning:   ColorWarning,
		Danger:    ColorDanger,
		Info:      ColorInfo,
	}
}

// ToneColor maps a card tone to its accent.
func (t Theme) ToneColor(tone model.Tone) lipgloss.TerminalColor {
	switch tone {
	case model.TonePrimary:
		return t.Primary
	case model.ToneSuccess:
		return t.Success
	case model.ToneWarning:
		return t.Warning
	case model.ToneDanger:
		return t.Danger
	default:
		return t.Info
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// METRIC VISUALIZATION
// ══════════════════════════════════════════════════════════════════════════════

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// RenderSparkline draws the last width points of values scaled between their min and max.
func RenderSparkline(values []float64, width int) string {
	if width <= 0 || len(values) == 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	var b strings.Builder
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

// RenderChange formats a percent change with a direction arrow.
func RenderChange(change float64, t Theme) string {
	style := t.Renderer.NewStyle().Foreground(t.Muted)
	arrow := "→"
	switch {
	case change > 0.05:
		style = style.Foreground(t.Success)
		arrow = "↑"
	case change < -0.05:
		style = style.Foreground(t.Danger)
		arrow = "↓"
	}
	return style.Render(fmt.Sprintf("%s %.1f%%", arrow, math.Abs(change)))
}

// ══════════════════════════════════════════════════════════════════════════════
// TEXT AND DIVIDERS
// ══════════════════════════════════════════════════════════════════════════════

// Truncate shortens s to at most width display cells, ending with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// RenderDivider renders a horizontal divider line
func RenderDivider(width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	return t.Renderer.NewStyle().
		Foreground(t.Border).
		Render(strings.Repeat("─", width))
}
