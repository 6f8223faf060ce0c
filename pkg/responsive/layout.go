package responsive

import (
	"math"

	"go.uber.org/zap"
)

// MinPadding is the padding used when the viewport cannot be measured.
const MinPadding = 1

// GridLayout is the grid derived from a device class and orientation.
type GridLayout struct {
	Columns int `json:"columns"`
}

// columnTable holds portrait and landscape column counts per device class.
var columnTable = map[DeviceClass][2]int{
	SmallPhone:  {1, 2},
	MediumPhone: {1, 2},
	LargePhone:  {1, 2},
	Tablet:      {2, 4},
	LargeTablet: {3, 5},
}

// phoneColumns is used for classes missing from columnTable.
var phoneColumns = [2]int{1, 2}

// ColumnsFor returns the grid column count for a class in an orientation.
func ColumnsFor(c DeviceClass, o Orientation) int {
	row, ok := columnTable[c]
	if !ok {
		row = phoneColumns
	}
	if o == Landscape {
		return row[1]
	}
	return row[0]
}

// paddingPercent returns the horizontal inset of a class as a percentage of width.
func paddingPercent(c DeviceClass) float64 {
	switch c {
	case SmallPhone, MediumPhone:
		return 4
	case LargePhone:
		return 6
	case Tablet:
		return 8
	default:
		return 10
	}
}

// GridColumns returns the column count for v using the default breakpoints.
// A positive widthOverride replaces v.Width before classification.
func GridColumns(v Viewport, widthOverride ...float64) int {
	return gridColumnsWith(DefaultBreakpoints(), applyOverride(v, widthOverride))
}

func applyOverride(v Viewport, widthOverride []float64) Viewport {
	if len(widthOverride) > 0 && validDimension(widthOverride[0]) {
		v.Width = widthOverride[0]
	}
	return v
}

func gridColumnsWith(b Breakpoints, v Viewport) int {
	if !v.Valid() {
		return 1
	}
	return ColumnsFor(b.Classify(v), v.Orientation())
}

// GridColumns returns the column count for the current viewport.
// A positive widthOverride replaces the viewport width, which lets a container
// narrower than the screen lay out its own grid.
func (e *Engine) GridColumns(widthOverride ...float64) int {
	return e.gridColumns(applyOverride(e.source.Current(), widthOverride))
}

// Grid returns the GridLayout for the current viewport.
func (e *Engine) Grid() GridLayout {
	return GridLayout{Columns: e.GridColumns()}
}

func (e *Engine) gridColumns(v Viewport) int {
	if !v.Valid() {
		e.log.Debug("Degraded grid for invalid viewport", zap.Stringer("viewport", v))
	}
	return gridColumnsWith(e.breakpoints, v)
}

// AdaptivePadding returns the horizontal inset for the current viewport.
func (e *Engine) AdaptivePadding() float64 {
	return e.adaptivePadding(e.source.Current())
}

func (e *Engine) adaptivePadding(v Viewport) float64 {
	if !v.Valid() {
		e.log.Debug("Degraded padding for invalid viewport", zap.Stringer("viewport", v))
		return MinPadding
	}
	p := e.percentOf(paddingPercent(e.breakpoints.Classify(v)), v.Width)
	return math.Max(p, MinPadding)
}

// PercentOfWidth returns pct percent of the current width in device pixels.
func (e *Engine) PercentOfWidth(pct float64) float64 {
	return e.percentOf(pct, e.source.Current().Width)
}

// PercentOfHeight returns pct percent of the current height in device pixels.
func (e *Engine) PercentOfHeight(pct float64) float64 {
	return e.percentOf(pct, e.source.Current().Height)
}

// percentOf never returns a negative or non-finite value.
func (e *Engine) percentOf(pct, dimension float64) float64 {
	if !validDimension(dimension) || math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0
	}
	px := math.Round(e.round(pct / 100 * dimension))
	if px < 0 {
		return 0
	}
	return px
}
