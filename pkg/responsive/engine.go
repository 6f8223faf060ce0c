package responsive

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ListenerID identifies one listener registered on a DimensionSource.
type ListenerID uint64

// DimensionSource supplies the current viewport and notifies on changes.
//
// Implementations must update the value returned by Current before invoking
// listeners, so a listener always reads the new viewport.
type DimensionSource interface {
	Current() Viewport
	OnChange(listener func()) ListenerID
	Release(id ListenerID)
}

// PixelRounder snaps a logical pixel value to the nearest addressable device pixel.
type PixelRounder func(float64) float64

// DensityRounder returns a rounder for the given pixel density.
// Non-positive or non-finite ratios fall back to a density of 1.
func DensityRounder(ratio float64) PixelRounder {
	if !validDimension(ratio) {
		ratio = 1
	}
	return func(v float64) float64 {
		return math.Round(v*ratio) / ratio
	}
}

// Platform selects the font metric correction applied by ResponsiveFont.
type Platform int

const (
	// PlatformIOS renders at nominal size; no correction.
	PlatformIOS Platform = iota
	// PlatformAndroid exposes larger default glyph metrics and gets FontOffset subtracted.
	PlatformAndroid
)

// String returns the platform name used in configuration.
func (p Platform) String() string {
	if p == PlatformAndroid {
		return "android"
	}
	return "ios"
}

// ParsePlatform maps a configuration value to a Platform.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ios", "":
		return PlatformIOS, nil
	case "android":
		return PlatformAndroid, nil
	default:
		return PlatformIOS, fmt.Errorf("unknown platform %q", s)
	}
}

// Engine answers layout queries against the current viewport of a DimensionSource.
// It holds no derived state; every query reads the source again.
type Engine struct {
	source      DimensionSource
	round       PixelRounder
	platform    Platform
	breakpoints Breakpoints
	log         *zap.Logger

	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithRounder sets the device pixel rounding capability.
func WithRounder(r PixelRounder) Option {
	return func(e *Engine) {
		if r != nil {
			e.round = r
		}
	}
}

// WithPlatform sets the platform family.
func WithPlatform(p Platform) Option {
	return func(e *Engine) {
		e.platform = p
	}
}

// WithBreakpoints replaces the breakpoint table. Tables that fail Validate are ignored.
func WithBreakpoints(b Breakpoints) Option {
	return func(e *Engine) {
		e.breakpoints = b
	}
}

// WithLogger sets the logger used for degraded-layout and subscription diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New creates an Engine reading viewports from source.
func New(source DimensionSource, opts ...Option) *Engine {
	e := &Engine{
		source:      source,
		round:       DensityRounder(1),
		platform:    PlatformIOS,
		breakpoints: DefaultBreakpoints(),
		log:         zap.NewNop(),
		subs:        make(map[*Subscription]struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if err := e.breakpoints.Validate(); err != nil {
		e.log.Warn("Ignoring breakpoint table", zap.Error(err))
		e.breakpoints = DefaultBreakpoints()
	}
	return e
}

// Viewport returns the current viewport of the source.
func (e *Engine) Viewport() Viewport {
	return e.source.Current()
}

// Platform returns the configured platform family.
func (e *Engine) Platform() Platform {
	return e.platform
}

// Breakpoints returns the active breakpoint table.
func (e *Engine) Breakpoints() Breakpoints {
	return e.breakpoints
}

// DeviceClass classifies the current viewport.
func (e *Engine) DeviceClass() DeviceClass {
	return e.breakpoints.Classify(e.source.Current())
}

// Orientation returns the orientation of the current viewport.
func (e *Engine) Orientation() Orientation {
	return e.source.Current().Orientation()
}

// Snapshot bundles the values derived from one read of the viewport.
type Snapshot struct {
	Viewport    Viewport
	Class       DeviceClass
	Orientation Orientation
	Grid        GridLayout
	Padding     float64
	Spacing     Spacing
	Typography  Typography
}

// Snapshot reads the viewport once and derives every layout value from it.
func (e *Engine) Snapshot() Snapshot {
	v := e.source.Current()
	return Snapshot{
		Viewport:    v,
		Class:       e.breakpoints.Classify(v),
		Orientation: v.Orientation(),
		Grid:        GridLayout{Columns: e.gridColumns(v)},
		Padding:     e.adaptivePadding(v),
		Spacing:     e.spacing(v),
		Typography:  e.typography(v),
	}
}
