package responsive

import "math"

const (
	// ReferenceWidth is the width at which fonts render at their base size.
	ReferenceWidth = 640

	// FontOffset is subtracted from scaled fonts on PlatformAndroid.
	FontOffset = 2

	// MinFontSize is the smallest size ResponsiveFont returns.
	MinFontSize = 1
)

// ResponsiveFont scales base by the ratio of the current width to ReferenceWidth.
func (e *Engine) ResponsiveFont(base float64) float64 {
	return e.responsiveFont(base, e.source.Current())
}

func (e *Engine) responsiveFont(base float64, v Viewport) float64 {
	scale := 1.0
	if validDimension(v.Width) {
		scale = v.Width / ReferenceWidth
	}
	size := math.Round(e.round(base * scale))
	if e.platform == PlatformAndroid {
		size -= FontOffset
	}
	if math.IsNaN(size) || size < MinFontSize {
		return MinFontSize
	}
	return size
}

// Spacing is the spacing scale for the current viewport.
type Spacing struct {
	XS float64
	SM float64
	MD float64
	LG float64
	XL float64
}

// Spacing returns the spacing scale as percentages of the current width.
func (e *Engine) Spacing() Spacing {
	return e.spacing(e.source.Current())
}

func (e *Engine) spacing(v Viewport) Spacing {
	return Spacing{
		XS: e.percentOf(1, v.Width),
		SM: e.percentOf(2, v.Width),
		MD: e.percentOf(4, v.Width),
		LG: e.percentOf(6, v.Width),
		XL: e.percentOf(8, v.Width),
	}
}

// Base font sizes fed to ResponsiveFont by Typography.
const (
	FontH1      = 32
	FontH2      = 28
	FontH3      = 24
	FontBody    = 16
	FontCaption = 12
)

// Typography holds scaled font sizes for the current viewport.
type Typography struct {
	H1      float64
	H2      float64
	H3      float64
	Body    float64
	Caption float64
}

// Typography returns font sizes scaled for the current viewport.
func (e *Engine) Typography() Typography {
	return e.typography(e.source.Current())
}

func (e *Engine) typography(v Viewport) Typography {
	return Typography{
		H1:      e.responsiveFont(FontH1, v),
		H2:      e.responsiveFont(FontH2, v),
		H3:      e.responsiveFont(FontH3, v),
		Body:    e.responsiveFont(FontBody, v),
		Caption: e.responsiveFont(FontCaption, v),
	}
}
