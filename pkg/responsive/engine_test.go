package responsive_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Dicklesworthstone/statdash/pkg/dimension"
	"github.com/Dicklesworthstone/statdash/pkg/responsive"
)

func newEngine(w, h float64, opts ...responsive.Option) (*responsive.Engine, *dimension.Source) {
	src := dimension.NewSource(responsive.Viewport{Width: w, Height: h})
	return responsive.New(src, opts...), src
}

func TestGridColumnsScenarios(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		class   responsive.DeviceClass
		columns int
	}{
		{"small phone portrait", 320, 640, responsive.SmallPhone, 1},
		{"large phone landscape", 640, 320, responsive.LargePhone, 2},
		{"tablet portrait", 800, 1024, responsive.Tablet, 2},
		{"large tablet landscape", 1024, 800, responsive.LargeTablet, 5},
		{"tablet landscape", 1000, 800, responsive.Tablet, 4},
		{"large tablet portrait", 1024, 1366, responsive.LargeTablet, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newEngine(tt.w, tt.h)
			if got := e.DeviceClass(); got != tt.class {
				t.Errorf("Expected class %v, got %v", tt.class, got)
			}
			if got := e.GridColumns(); got != tt.columns {
				t.Errorf("Expected %d columns, got %d", tt.columns, got)
			}
			if got := responsive.GridColumns(responsive.Viewport{Width: tt.w, Height: tt.h}); got != tt.columns {
				t.Errorf("GridColumns() = %d, expected %d", got, tt.columns)
			}
		})
	}
}

func TestGridColumnsMonotonic(t *testing.T) {
	classes := []responsive.DeviceClass{
		responsive.SmallPhone, responsive.MediumPhone, responsive.LargePhone,
		responsive.Tablet, responsive.LargeTablet,
	}
	prev := map[responsive.Orientation]int{}
	for _, c := range classes {
		p := responsive.ColumnsFor(c, responsive.Portrait)
		l := responsive.ColumnsFor(c, responsive.Landscape)
		if l < p {
			t.Errorf("%v: landscape %d < portrait %d", c, l, p)
		}
		if p < prev[responsive.Portrait] || l < prev[responsive.Landscape] {
			t.Errorf("%v: columns decreased relative to smaller class", c)
		}
		prev[responsive.Portrait], prev[responsive.Landscape] = p, l
	}
	if got := responsive.ColumnsFor(responsive.DeviceClass(99), responsive.Landscape); got != 2 {
		t.Errorf("Expected phone fallback of 2, got %d", got)
	}
}

func TestGridColumnsWidthOverride(t *testing.T) {
	e, _ := newEngine(1024, 800)
	// a 600px wide container inside a large tablet lays out as a phone
	if got := e.GridColumns(600); got != 1 {
		t.Errorf("Expected 1 column for 600 override, got %d", got)
	}
	if got := e.GridColumns(0); got != 5 {
		t.Errorf("Expected zero override to be ignored, got %d", got)
	}
}

func TestInvalidViewportDegrades(t *testing.T) {
	e, _ := newEngine(0, -10)
	if got := e.GridColumns(); got != 1 {
		t.Errorf("Expected 1 column, got %d", got)
	}
	if got := e.AdaptivePadding(); got != responsive.MinPadding {
		t.Errorf("Expected min padding, got %v", got)
	}
	if got := e.PercentOfWidth(50); got != 0 {
		t.Errorf("Expected 0, got %v", got)
	}
	if err := e.Viewport().Validate(); !errors.Is(err, responsive.ErrInvalidDimension) {
		t.Errorf("Expected ErrInvalidDimension, got %v", err)
	}
}

func TestAdaptivePadding(t *testing.T) {
	tests := []struct {
		w, h     float64
		expected float64
	}{
		{320, 640, 13},    // 4% small phone
		{375, 667, 15},    // 4% medium phone
		{500, 900, 30},    // 6% large phone
		{800, 1024, 64},   // 8% tablet
		{1366, 1024, 137}, // 10% large tablet
	}
	for _, tt := range tests {
		e, _ := newEngine(tt.w, tt.h)
		if got := e.AdaptivePadding(); got != tt.expected {
			t.Errorf("%vx%v: expected padding %v, got %v", tt.w, tt.h, tt.expected, got)
		}
	}
}

func TestPercentRounding(t *testing.T) {
	e, _ := newEngine(333, 777, responsive.WithRounder(responsive.DensityRounder(3)))
	// 10% of 333 = 33.3 -> device pixel 33.333.. -> 33
	if got := e.PercentOfWidth(10); got != 33 {
		t.Errorf("Expected 33, got %v", got)
	}
	// 50% of 777 = 388.5 -> 388.6667 at 3x -> 389
	if got := e.PercentOfHeight(50); got != 389 {
		t.Errorf("Expected 389, got %v", got)
	}
	if got := e.PercentOfWidth(-5); got != 0 {
		t.Errorf("Expected negative percent to clamp to 0, got %v", got)
	}
}

func TestResponsiveFont(t *testing.T) {
	ios, _ := newEngine(640, 1136)
	android, _ := newEngine(640, 1136, responsive.WithPlatform(responsive.PlatformAndroid))

	if got := ios.ResponsiveFont(28); got != 28 {
		t.Errorf("iOS: expected 28, got %v", got)
	}
	if got := android.ResponsiveFont(28); got != 26 {
		t.Errorf("Android: expected 26, got %v", got)
	}

	wide, _ := newEngine(1280, 800)
	if got := wide.ResponsiveFont(16); got != 32 {
		t.Errorf("Expected doubled font at 1280, got %v", got)
	}

	if got := ios.ResponsiveFont(0); got != responsive.MinFontSize {
		t.Errorf("Expected font floor %d, got %v", responsive.MinFontSize, got)
	}
	if got := android.ResponsiveFont(2); got != responsive.MinFontSize {
		t.Errorf("Expected font floor after offset, got %v", got)
	}
}

func TestDerivedValuesFollowRotation(t *testing.T) {
	e, src := newEngine(320, 640)
	before := e.Snapshot()
	src.Set(responsive.Viewport{Width: 640, Height: 320})
	after := e.Snapshot()

	if before.Orientation != responsive.Portrait || after.Orientation != responsive.Landscape {
		t.Fatalf("Orientation not recomputed: %v -> %v", before.Orientation, after.Orientation)
	}
	if after.Grid.Columns != 2 {
		t.Errorf("Expected 2 columns after rotation, got %d", after.Grid.Columns)
	}
	if after.Spacing.MD <= before.Spacing.MD {
		t.Errorf("Expected spacing to grow with width: %v -> %v", before.Spacing.MD, after.Spacing.MD)
	}
	if after.Typography.Body != 16 {
		t.Errorf("Expected body font 16 at reference width, got %v", after.Typography.Body)
	}
}

func TestInvalidBreakpointsIgnored(t *testing.T) {
	b := responsive.DefaultBreakpoints()
	b.LargeTablet = 10
	e, _ := newEngine(800, 1024, responsive.WithBreakpoints(b))
	if e.Breakpoints() != responsive.DefaultBreakpoints() {
		t.Error("Expected invalid breakpoints to fall back to defaults")
	}
}

func TestSubscribeFiresOncePerChange(t *testing.T) {
	e, src := newEngine(320, 640)
	var seen []responsive.Viewport
	sub := e.Subscribe(func(v responsive.Viewport) {
		seen = append(seen, v)
		// reading through the engine must observe the new viewport
		if e.Viewport() != v {
			t.Errorf("Engine viewport %v differs from delivered %v", e.Viewport(), v)
		}
	})

	src.Set(responsive.Viewport{Width: 640, Height: 320})
	src.Set(responsive.Viewport{Width: 640, Height: 320}) // unchanged, no fire
	src.Set(responsive.Viewport{Width: 800, Height: 1024})

	if len(seen) != 2 {
		t.Fatalf("Expected 2 deliveries, got %d", len(seen))
	}
	if seen[1].Width != 800 {
		t.Errorf("Expected latest viewport, got %v", seen[1])
	}

	sub.Unsubscribe()
	src.Set(responsive.Viewport{Width: 1024, Height: 800})
	if len(seen) != 2 {
		t.Errorf("Expected no delivery after unsubscribe, got %d", len(seen))
	}
	if src.Listeners() != 0 {
		t.Errorf("Expected source listener to be released, got %d", src.Listeners())
	}
}

func TestUnsubscribeTwiceIsNoop(t *testing.T) {
	e, src := newEngine(320, 640)
	sub := e.Subscribe(func(responsive.Viewport) {})
	e.Unsubscribe(sub)
	e.Unsubscribe(sub)
	sub.Unsubscribe()
	e.Unsubscribe(nil)

	if !sub.Released() {
		t.Error("Expected subscription to be released")
	}
	if e.Active() != 0 || src.Listeners() != 0 {
		t.Errorf("Expected nothing registered, got engine=%d source=%d", e.Active(), src.Listeners())
	}
}

func TestUnsubscribeDuringDelivery(t *testing.T) {
	e, src := newEngine(320, 640)
	var first, second int
	var other *responsive.Subscription
	e.Subscribe(func(responsive.Viewport) {
		first++
		other.Unsubscribe()
	})
	other = e.Subscribe(func(responsive.Viewport) { second++ })

	src.Set(responsive.Viewport{Width: 400, Height: 800})
	if first != 1 {
		t.Errorf("Expected first listener to fire once, got %d", first)
	}
	if second != 0 {
		t.Errorf("Expected released listener not to fire, got %d", second)
	}
}

func TestUnsubscribeWaitsForRunningDelivery(t *testing.T) {
	e, src := newEngine(320, 640)
	entered := make(chan struct{})
	proceed := make(chan struct{})
	var finished atomic.Bool
	sub := e.Subscribe(func(responsive.Viewport) {
		close(entered)
		<-proceed
		finished.Store(true)
	})

	go src.Set(responsive.Viewport{Width: 400, Height: 800})
	<-entered

	returned := make(chan bool)
	go func() {
		sub.Unsubscribe()
		returned <- finished.Load()
	}()

	select {
	case <-returned:
		t.Fatal("Unsubscribe returned while callback was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(proceed)
	select {
	case done := <-returned:
		if !done {
			t.Error("Expected callback to complete before Unsubscribe returned")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Unsubscribe did not return after callback completed")
	}
	if src.Listeners() != 0 {
		t.Errorf("Expected listener released, got %d", src.Listeners())
	}
}

func TestUnsubscribeFromOwnCallback(t *testing.T) {
	e, src := newEngine(320, 640)
	var calls int
	var sub *responsive.Subscription
	sub = e.Subscribe(func(responsive.Viewport) {
		calls++
		sub.Unsubscribe()
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		src.Set(responsive.Viewport{Width: 400, Height: 800})
		src.Set(responsive.Viewport{Width: 800, Height: 400})
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Unsubscribe from inside the callback deadlocked")
	}

	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
	if !sub.Released() || e.Active() != 0 {
		t.Errorf("Expected subscription released, got released=%v active=%d", sub.Released(), e.Active())
	}
}

func TestNestedChangeFromCallback(t *testing.T) {
	e, src := newEngine(320, 640)
	var seen []float64
	e.Subscribe(func(v responsive.Viewport) {
		seen = append(seen, v.Width)
		if len(seen) == 1 {
			src.Set(responsive.Viewport{Width: 800, Height: 400})
		}
	})

	src.Set(responsive.Viewport{Width: 400, Height: 800})
	if len(seen) != 2 || seen[0] != 400 || seen[1] != 800 {
		t.Errorf("Expected deliveries for 400 then 800, got %v", seen)
	}
}

func TestSubscribeContextReleasesOnCancel(t *testing.T) {
	e, src := newEngine(320, 640)
	ctx, cancel := context.WithCancel(context.Background())
	sub := e.SubscribeContext(ctx, func(responsive.Viewport) {})
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for !sub.Released() {
		if time.Now().After(deadline) {
			t.Fatal("Subscription not released after context cancel")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if src.Listeners() != 0 {
		t.Errorf("Expected listener released on cancel, got %d", src.Listeners())
	}
	sub.Unsubscribe() // after teardown, still a no-op
}

func TestCloseReleasesAll(t *testing.T) {
	e, src := newEngine(320, 640)
	for i := 0; i < 3; i++ {
		e.Subscribe(func(responsive.Viewport) {})
	}
	e.Close()
	if e.Active() != 0 || src.Listeners() != 0 {
		t.Errorf("Expected Close to release all, got engine=%d source=%d", e.Active(), src.Listeners())
	}
}

func TestParsePlatform(t *testing.T) {
	if p, err := responsive.ParsePlatform("Android"); err != nil || p != responsive.PlatformAndroid {
		t.Errorf("Expected android, got %v (%v)", p, err)
	}
	if p, err := responsive.ParsePlatform(""); err != nil || p != responsive.PlatformIOS {
		t.Errorf("Expected ios default, got %v (%v)", p, err)
	}
	if _, err := responsive.ParsePlatform("symbian"); err == nil {
		t.Error("Expected error for unknown platform")
	}
}
