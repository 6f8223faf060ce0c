package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/statdash/pkg/model"
)

// RenderHeader renders the title line, the subtitle and a divider.
// The right side reports the device class the layout was derived from.
func RenderHeader(d *model.Dashboard, l Layout, refreshing bool, t Theme) string {
	width := max(1, l.Width-2*l.Padding)
	s := l.Snapshot

	badge := fmt.Sprintf("%s · %s · %d col", s.Class, s.Orientation, l.Columns)
	if l.Columns != 1 {
		badge += "s"
	}
	if l.Compact {
		badge = s.Class.String()
	}
	if refreshing {
		badge = "⟳ " + badge
	}
	badgeStyle := t.Renderer.NewStyle().Foreground(t.Muted)

	titleWidth := max(1, width-lipgloss.Width(badge)-1)
	title := t.Renderer.NewStyle().Bold(true).Foreground(t.Primary).
		Render(Truncate(d.Title, titleWidth))
	gap := max(1, width-lipgloss.Width(title)-lipgloss.Width(badge))
	top := title + strings.Repeat(" ", gap) + badgeStyle.Render(badge)

	sub := t.Renderer.NewStyle().Foreground(t.Subtext).Render(Truncate(d.Subtitle, width))

	pad := strings.Repeat(" ", l.Padding)
	return strings.Join([]string{
		pad + top,
		pad + sub,
		pad + RenderDivider(width, t),
	}, "\n")
}
