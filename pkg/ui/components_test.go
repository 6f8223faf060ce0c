package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/statdash/pkg/model"
)

func TestRenderCard_Size(t *testing.T) {
	theme := testTheme()
	c := model.StatCard{ID: "rev", Title: "Revenue collected this quarter", Value: "$24.5k", History: []float64{1, 2, 3, 4}}

	for _, width := range []int{16, 24, 40} {
		out := RenderCard(c, width, false, false, theme)
		if got := lipgloss.Width(out); got != width {
			t.Errorf("width %d: expected card width %d, got %d", width, width, got)
		}
		if got := lipgloss.Height(out); got != CardHeight {
			t.Errorf("width %d: expected card height %d, got %d", width, CardHeight, got)
		}
	}
}

func TestRenderCard_CompactDropsTrend(t *testing.T) {
	theme := testTheme()
	c := model.StatCard{ID: "rev", Title: "Revenue", Value: "10", History: []float64{5, 10}}

	full := RenderCard(c, 30, false, false, theme)
	compact := RenderCard(c, 30, false, true, theme)
	if !strings.Contains(full, "↑") {
		t.Error("Expected trend arrow in full card")
	}
	if strings.Contains(compact, "↑") {
		t.Error("Expected no trend arrow in compact card")
	}
}

func TestRenderGrid_Rows(t *testing.T) {
	theme := testTheme()
	cards := []model.StatCard{
		{ID: "a", Title: "A", Value: "1"},
		{ID: "b", Title: "B", Value: "2"},
		{ID: "c", Title: "C", Value: "3"},
	}
	l := Layout{Columns: 2, Gutter: 1, CardWidth: 20}

	out := RenderGrid(cards, l, 0, theme)
	if got := lipgloss.Height(out); got != 2*CardHeight {
		t.Errorf("Expected 2 rows of cards, got height %d", got)
	}
	if got := lipgloss.Width(out); got != 2*20+1 {
		t.Errorf("Expected grid width 41, got %d", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
		want   string
	}{
		{"empty", nil, 5, ""},
		{"flat", []float64{3, 3, 3}, 5, "▁▁▁"},
		{"rising", []float64{0, 7}, 5, "▁█"},
		{"keeps newest", []float64{0, 1, 2, 3, 4, 5, 6, 7}, 2, "▁█"},
		{"zero width", []float64{1, 2}, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderSparkline(tt.values, tt.width); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Revenue", 10); got != "Revenue" {
		t.Errorf("Expected untouched, got %q", got)
	}
	if got := Truncate("Revenue", 4); got != "Rev…" {
		t.Errorf("Expected Rev…, got %q", got)
	}
	// wide runes count two cells each
	if got := Truncate("売上高合計", 5); lipgloss.Width(got) > 5 {
		t.Errorf("Expected at most 5 cells, got %q (%d)", got, lipgloss.Width(got))
	}
	if got := Truncate("x", 0); got != "" {
		t.Errorf("Expected empty, got %q", got)
	}
}

func TestFilterActions(t *testing.T) {
	actions := []model.QuickAction{
		{ID: "report", Label: "New Report"},
		{ID: "export", Label: "Export Data"},
		{ID: "invite", Label: "Invite Team"},
	}

	if got := FilterActions(actions, ""); len(got) != 3 {
		t.Errorf("Expected all actions for empty query, got %d", len(got))
	}
	got := FilterActions(actions, "team")
	if len(got) != 1 || got[0].ID != "invite" {
		t.Errorf("Expected invite only, got %+v", got)
	}
	if got := FilterActions(actions, "zzz"); len(got) != 0 {
		t.Errorf("Expected no matches, got %+v", got)
	}
}

func TestRenderActions(t *testing.T) {
	theme := testTheme()
	actions := []model.QuickAction{
		{ID: "report", Label: "New Report", Key: "n", Description: "Start a blank report"},
	}

	full := RenderActions(actions, 60, false, "", theme)
	if !strings.Contains(full, "[n] New Report") || !strings.Contains(full, "blank report") {
		t.Errorf("Expected key, label and description, got:\n%s", full)
	}
	compact := RenderActions(actions, 60, true, "", theme)
	if strings.Contains(compact, "blank report") {
		t.Error("Expected description dropped in compact mode")
	}
	empty := RenderActions(nil, 60, false, "/ zzz", theme)
	if !strings.Contains(empty, "No matching actions") || !strings.Contains(empty, "/ zzz") {
		t.Errorf("Expected empty state with filter, got:\n%s", empty)
	}
}
