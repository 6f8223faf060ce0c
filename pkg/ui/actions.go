package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/Dicklesworthstone/statdash/pkg/model"
)

// actionSource adapts quick actions to fuzzy.Source.
type actionSource []model.QuickAction

func (a actionSource) String(i int) string { return a[i].Label + " " + a[i].Description }
func (a actionSource) Len() int            { return len(a) }

// FilterActions returns the actions matching query, best match first.
// An empty query returns all actions in their original order.
func FilterActions(actions []model.QuickAction, query string) []model.QuickAction {
	query = strings.TrimSpace(query)
	if query == "" {
		return actions
	}
	matches := fuzzy.FindFrom(query, actionSource(actions))
	out := make([]model.QuickAction, 0, len(matches))
	for _, m := range matches {
		out = append(out, actions[m.Index])
	}
	return out
}

// RenderActions renders the quick-actions panel. filter is the rendered
// filter input, empty when not filtering.
func RenderActions(actions []model.QuickAction, width int, compact bool, filter string, t Theme) string {
	var b strings.Builder

	title := t.Renderer.NewStyle().Bold(true).Foreground(t.Secondary)
	b.WriteString(title.Render("QUICK ACTIONS"))
	b.WriteString("\n")
	if filter != "" {
		b.WriteString(filter)
		b.WriteString("\n")
	}

	if len(actions) == 0 {
		b.WriteString(t.Renderer.NewStyle().Foreground(t.Muted).Italic(true).Render("No matching actions"))
		return b.String()
	}

	keyStyle := t.Renderer.NewStyle().Foreground(t.Primary).Bold(true)
	labelStyle := t.Renderer.NewStyle().Foreground(t.Text)
	descStyle := t.Renderer.NewStyle().Foreground(t.Muted)

	for i, a := range actions {
		if i > 0 {
			b.WriteString("\n")
		}
		key := " "
		if a.Key != "" {
			key = a.Key
		}
		prefix := "[" + key + "] "
		avail := max(1, width-len(prefix))
		line := keyStyle.Render(prefix) + labelStyle.Render(Truncate(a.Label, avail))
		if !compact && a.Description != "" {
			rest := avail - lipgloss.Width(Truncate(a.Label, avail)) - 3
			if rest > 4 {
				line += descStyle.Render(" · " + Truncate(a.Description, rest))
			}
		}
		b.WriteString(line)
	}
	return b.String()
}
