package dimension

import (
	"math"

	"github.com/Dicklesworthstone/statdash/pkg/responsive"
)

// Default terminal cell size in logical pixels.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// CellMetrics converts terminal cells to logical pixels.
type CellMetrics struct {
	CellWidth  float64 `yaml:"cell_width" validate:"gt=0"`
	CellHeight float64 `yaml:"cell_height" validate:"gt=0"`
}

// DefaultCellMetrics returns the 8x16 cell metrics.
func DefaultCellMetrics() CellMetrics {
	return CellMetrics{CellWidth: DefaultCellWidth, CellHeight: DefaultCellHeight}
}

func (m CellMetrics) normalized() CellMetrics {
	if m.CellWidth <= 0 {
		m.CellWidth = DefaultCellWidth
	}
	if m.CellHeight <= 0 {
		m.CellHeight = DefaultCellHeight
	}
	return m
}

// ToViewport converts a terminal size in cells to a viewport.
func (m CellMetrics) ToViewport(cols, rows int) responsive.Viewport {
	m = m.normalized()
	return responsive.Viewport{
		Width:  float64(cols) * m.CellWidth,
		Height: float64(rows) * m.CellHeight,
	}
}

// Cols converts a horizontal pixel length to whole cells, rounding to nearest.
func (m CellMetrics) Cols(px float64) int {
	m = m.normalized()
	return int(math.Round(px / m.CellWidth))
}

// Rows converts a vertical pixel length to whole cells, rounding to nearest.
func (m CellMetrics) Rows(px float64) int {
	m = m.normalized()
	return int(math.Round(px / m.CellHeight))
}
