// Package responsive classifies a screen by its geometry and derives grid,
// spacing and typography values from that classification.
//
// All query functions are pure. The Engine recomputes every value from the
// current Viewport of its DimensionSource on each call, so consumers never see
// values computed for a previous orientation.
package responsive

import (
	"fmt"
	"math"
)

// Layout breakpoints in logical pixels.
const (
	// BreakpointSmall is the width below which a phone is a small phone.
	BreakpointSmall = 360

	// BreakpointMedium is the width below which a phone is a medium phone.
	BreakpointMedium = 400

	// BreakpointLarge is the large phone threshold. Classification does not
	// consult it; it is kept so the table stays complete for consumers.
	BreakpointLarge = 500

	// BreakpointTablet is compared against the smaller screen dimension to
	// separate phones from tablets.
	BreakpointTablet = 768

	// BreakpointLargeTablet is the width at and above which a tablet is a
	// large tablet.
	BreakpointLargeTablet = 1024
)

// Breakpoints is an ordered breakpoint table.
type Breakpoints struct {
	Small       float64 `yaml:"small" validate:"gt=0"`
	Medium      float64 `yaml:"medium" validate:"gtfield=Small"`
	Large       float64 `yaml:"large" validate:"gtfield=Medium"`
	Tablet      float64 `yaml:"tablet" validate:"gtfield=Large"`
	LargeTablet float64 `yaml:"large_tablet" validate:"gtfield=Tablet"`
}

// DefaultBreakpoints returns the standard breakpoint table.
func DefaultBreakpoints() Breakpoints {
	return Breakpoints{
		Small:       BreakpointSmall,
		Medium:      BreakpointMedium,
		Large:       BreakpointLarge,
		Tablet:      BreakpointTablet,
		LargeTablet: BreakpointLargeTablet,
	}
}

// Validate reports an error unless thresholds are positive and strictly increasing.
func (b Breakpoints) Validate() error {
	seq := []float64{b.Small, b.Medium, b.Large, b.Tablet, b.LargeTablet}
	prev := 0.0
	for i, v := range seq {
		if math.IsNaN(v) || v <= prev {
			return fmt.Errorf("breakpoint %d (%v) must be greater than %v", i, v, prev)
		}
		prev = v
	}
	return nil
}

// DeviceClass is one of five mutually exclusive screen size categories.
type DeviceClass int

const (
	SmallPhone DeviceClass = iota
	MediumPhone
	LargePhone
	Tablet
	LargeTablet
)

// String returns the class name.
func (c DeviceClass) String() string {
	switch c {
	case SmallPhone:
		return "smallPhone"
	case MediumPhone:
		return "mediumPhone"
	case LargePhone:
		return "largePhone"
	case Tablet:
		return "tablet"
	case LargeTablet:
		return "largeTablet"
	default:
		return fmt.Sprintf("DeviceClass(%d)", int(c))
	}
}

// IsPhone returns true for the three phone classes.
func (c DeviceClass) IsPhone() bool {
	return c == SmallPhone || c == MediumPhone || c == LargePhone
}

// IsTablet returns true for both tablet classes.
func (c DeviceClass) IsTablet() bool {
	return c == Tablet || c == LargeTablet
}

// Classify maps a viewport to a device class using the default breakpoints.
func Classify(v Viewport) DeviceClass {
	return DefaultBreakpoints().Classify(v)
}

// Classify maps a viewport to a device class.
//
// The phone/tablet split uses the smaller dimension so rotating a tablet never
// turns it into a phone. Sub-tiers use the raw width, which follows rotation.
func (b Breakpoints) Classify(v Viewport) DeviceClass {
	if math.Min(v.Width, v.Height) < b.Tablet {
		switch {
		case v.Width < b.Small:
			return SmallPhone
		case v.Width < b.Medium:
			return MediumPhone
		default:
			return LargePhone
		}
	}
	if v.Width < b.LargeTablet {
		return Tablet
	}
	return LargeTablet
}
