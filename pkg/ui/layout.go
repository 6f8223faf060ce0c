package ui

import (
	"github.com/Dicklesworthstone/statdash/pkg/dimension"
	"github.com/Dicklesworthstone/statdash/pkg/responsive"
)

// Card and panel dimension constraints, in cells.
const (
	// MinCardWidth is the narrowest card that still fits a value and sparkline.
	MinCardWidth = 16

	// CardHeight is the fixed height of a stat card including its border.
	CardHeight = 6

	// ActionsPanelWidth is the width of the quick-actions sidebar.
	ActionsPanelWidth = 30

	// HeaderHeight is the number of lines used by the header.
	HeaderHeight = 3

	// FooterHeight is the number of lines used by the status bar.
	FooterHeight = 1
)

// Layout is the dashboard geometry in terminal cells derived from one engine snapshot.
type Layout struct {
	Snapshot responsive.Snapshot

	Width  int
	Height int

	Columns   int
	Padding   int
	Gutter    int
	CardWidth int

	// ActionsBeside places quick actions in a sidebar instead of below the grid.
	ActionsBeside bool
	// Compact drops secondary text when body type scales below its base size.
	Compact bool
}

// ComputeLayout converts an engine snapshot to cell geometry for a cols x rows terminal.
func ComputeLayout(s responsive.Snapshot, m dimension.CellMetrics, cols, rows int) Layout {
	l := Layout{
		Snapshot: s,
		Width:    cols,
		Height:   rows,
		Columns:  s.Grid.Columns,
		Padding:  max(1, m.Cols(s.Padding)),
		Gutter:   max(1, m.Cols(s.Spacing.SM)),
		Compact:  s.Typography.Body < responsive.FontBody,
	}
	if l.Columns < 1 {
		l.Columns = 1
	}

	// the padding budget never eats more than a quarter of the screen
	if l.Padding*8 > cols {
		l.Padding = max(1, cols/8)
	}

	l.ActionsBeside = s.Class.IsTablet() && s.Orientation == responsive.Landscape &&
		l.gridWidth(true) >= MinCardWidth*l.Columns

	// a terminal cell is far coarser than a device pixel, so the engine's
	// column count can leave cards too narrow to read
	for l.Columns > 1 && l.cardWidth() < MinCardWidth {
		l.Columns--
	}
	l.CardWidth = max(1, l.cardWidth())
	return l
}

// gridWidth returns the width available to the card grid.
func (l Layout) gridWidth(beside bool) int {
	w := l.Width - 2*l.Padding
	if beside {
		w -= ActionsPanelWidth + l.Gutter
	}
	return w
}

func (l Layout) cardWidth() int {
	return (l.gridWidth(l.ActionsBeside) - (l.Columns-1)*l.Gutter) / l.Columns
}

// ContentHeight returns the lines left for the scrollable body.
func (l Layout) ContentHeight() int {
	return max(1, l.Height-HeaderHeight-FooterHeight)
}

// ActionsWidth returns the width of the quick-actions panel.
func (l Layout) ActionsWidth() int {
	if l.ActionsBeside {
		return ActionsPanelWidth
	}
	return max(1, l.Width-2*l.Padding)
}
