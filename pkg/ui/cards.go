package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/statdash/pkg/model"
)

// RenderCard renders one stat card exactly width cells wide and CardHeight lines tall.
func RenderCard(c model.StatCard, width int, focused, compact bool, t Theme) string {
	inner := max(1, width-4) // border + horizontal padding

	border := t.Border
	if focused {
		border = t.Focus
	}
	accent := t.ToneColor(c.Tone)

	titleStyle := t.Renderer.NewStyle().Foreground(t.Subtext)
	valueStyle := t.Renderer.NewStyle().Bold(true).Foreground(accent)

	lines := []string{
		titleStyle.Render(Truncate(c.Title, inner)),
		valueStyle.Render(Truncate(c.Display(), inner)),
	}
	if !compact && len(c.History) > 1 {
		change := RenderChange(c.Change(), t)
		spark := t.Renderer.NewStyle().Foreground(accent).
			Render(RenderSparkline(c.History, max(0, inner-lipgloss.Width(change)-1)))
		lines = append(lines, change+" "+spark)
	}

	return t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(width - 2).
		Height(CardHeight - 2).
		Render(strings.Join(lines, "\n"))
}

// RenderGrid lays cards out row by row using the layout's columns and gutter.
// focus is the index of the highlighted card, or -1.
func RenderGrid(cards []model.StatCard, l Layout, focus int, t Theme) string {
	if len(cards) == 0 {
		return t.Renderer.NewStyle().Foreground(t.Muted).Italic(true).Render("No statistics yet")
	}

	gutter := strings.Repeat(" ", l.Gutter)
	var rows []string
	for start := 0; start < len(cards); start += l.Columns {
		end := min(start+l.Columns, len(cards))
		parts := make([]string, 0, 2*(end-start))
		for i := start; i < end; i++ {
			if i > start {
				parts = append(parts, gutter)
			}
			parts = append(parts, RenderCard(cards[i], l.CardWidth, i == focus, l.Compact, t))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}
	return strings.Join(rows, "\n")
}

// CardAt returns the card index reached from focus by moving dx columns and
// dy rows in a grid of columns, clamped to the card count.
func CardAt(focus, dx, dy, columns, count int) int {
	if count == 0 {
		return -1
	}
	if columns < 1 {
		columns = 1
	}
	row, col := focus/columns, focus%columns
	col += dx
	if col < 0 {
		col = 0
	}
	if col >= columns {
		col = columns - 1
	}
	row += dy
	if row < 0 {
		row = 0
	}
	next := row*columns + col
	if next >= count {
		if dy > 0 {
			// moving down past the last row keeps the column when possible
			return min(focus, count-1)
		}
		next = count - 1
	}
	return next
}
