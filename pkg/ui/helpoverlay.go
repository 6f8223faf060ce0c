package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlayModel shows keyboard shortcuts and the dashboard notes
type HelpOverlayModel struct {
	visible bool
	width   int
	height  int
	theme   Theme

	notes         string
	renderedNotes string
	renderedWidth int
}

// NewHelpOverlayModel creates a new help overlay
func NewHelpOverlayModel(theme Theme) HelpOverlayModel {
	return HelpOverlayModel{
		theme: theme,
	}
}

// Show makes the help overlay visible
func (m *HelpOverlayModel) Show() {
	m.visible = true
}

// Hide makes the help overlay invisible
func (m *HelpOverlayModel) Hide() {
	m.visible = false
}

// Toggle toggles visibility
func (m *HelpOverlayModel) Toggle() {
	m.visible = !m.visible
}

// IsVisible returns true if overlay is showing
func (m HelpOverlayModel) IsVisible() bool {
	return m.visible
}

// SetSize sets dimensions
func (m *HelpOverlayModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetNotes sets the markdown shown below the shortcuts.
func (m *HelpOverlayModel) SetNotes(markdown string) {
	if markdown != m.notes {
		m.notes = markdown
		m.renderedWidth = 0
	}
}

// Update handles input
func (m HelpOverlayModel) Update(msg tea.Msg) (HelpOverlayModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg.(type) {
	case tea.KeyMsg:
		// Any key closes help
		m.visible = false
	}

	return m, nil
}

// boxWidth is the overlay width for the current terminal size.
func (m HelpOverlayModel) boxWidth() int {
	return max(24, min(72, m.width-4))
}

func (m *HelpOverlayModel) notesView(width int) string {
	if strings.TrimSpace(m.notes) == "" {
		return ""
	}
	if m.renderedWidth == width {
		return m.renderedNotes
	}
	out := m.notes
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		if rendered, err := r.Render(m.notes); err == nil {
			out = strings.Trim(rendered, "\n")
		}
	}
	m.renderedNotes, m.renderedWidth = out, width
	return out
}

// View renders the help overlay
func (m *HelpOverlayModel) View() string {
	if !m.visible {
		return ""
	}

	var b strings.Builder

	titleStyle := m.theme.Renderer.NewStyle().
		Bold(true).
		Foreground(m.theme.Primary).
		MarginBottom(1)
	b.WriteString(titleStyle.Render("Dashboard Help"))
	b.WriteString("\n\n")

	sectionStyle := m.theme.Renderer.NewStyle().Bold(true).Foreground(m.theme.Secondary)
	keyStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Primary).Width(12)
	descStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Subtext)

	sections := []struct {
		title string
		keys  []struct{ key, desc string }
	}{
		{"NAVIGATION", []struct{ key, desc string }{
			{"←↓↑→/hjkl", "Move between cards"},
			{"PgUp/PgDn", "Scroll"},
			{"g/G", "First/last card"},
		}},
		{"ACTIONS", []struct{ key, desc string }{
			{"/", "Filter quick actions"},
			{"y", "Copy card value"},
			{"r", "Refresh"},
		}},
		{"VIEW", []struct{ key, desc string }{
			{"?", "Toggle this help"},
			{"q/Ctrl+C", "Quit"},
		}},
	}
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(s.title) + "\n")
		for _, k := range s.keys {
			b.WriteString("  " + keyStyle.Render(k.key) + descStyle.Render(k.desc) + "\n")
		}
	}

	inner := m.boxWidth() - 6 // border + padding
	if notes := m.notesView(inner); notes != "" {
		b.WriteString("\n")
		b.WriteString(notes)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	hintStyle := m.theme.Renderer.NewStyle().Faint(true).Italic(true)
	b.WriteString(hintStyle.Render("[Press any key to close]"))

	boxStyle := m.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(1, 2).
		Width(m.boxWidth() - 2)

	return boxStyle.Render(b.String())
}
