package responsive

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDimension is returned for zero, negative or non-finite viewports.
var ErrInvalidDimension = errors.New("invalid viewport dimension")

// Viewport is the visible screen size in logical pixels.
type Viewport struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Orientation is derived from a viewport and never stored on its own.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

// String returns "portrait" or "landscape".
func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// Orientation returns Landscape iff the viewport is wider than it is tall.
func (v Viewport) Orientation() Orientation {
	if v.Width > v.Height {
		return Landscape
	}
	return Portrait
}

// IsLandscape is shorthand for v.Orientation() == Landscape.
func (v Viewport) IsLandscape() bool {
	return v.Orientation() == Landscape
}

// Valid returns true when both dimensions are positive and finite.
func (v Viewport) Valid() bool {
	return validDimension(v.Width) && validDimension(v.Height)
}

// Validate returns ErrInvalidDimension wrapped with the offending values.
func (v Viewport) Validate() error {
	if !v.Valid() {
		return fmt.Errorf("%w: %vx%v", ErrInvalidDimension, v.Width, v.Height)
	}
	return nil
}

// String formats the viewport as WxH.
func (v Viewport) String() string {
	return fmt.Sprintf("%gx%g", v.Width, v.Height)
}

func validDimension(d float64) bool {
	return d > 0 && !math.IsInf(d, 0) && !math.IsNaN(d)
}
