// Package export renders dashboard wireframes for a device viewport.
//
// A Plan places the header, stat cards and quick actions in logical pixels
// using the responsive engine, and can be written out as SVG or PNG.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/Dicklesworthstone/statdash/pkg/model"
	"github.com/Dicklesworthstone/statdash/pkg/responsive"
)

// Rect is an axis-aligned box in logical pixels.
type Rect struct {
	X, Y, W, H float64
}

// CardBox is a stat card placed on the wireframe.
type CardBox struct {
	Rect
	Card model.StatCard
}

// ActionBox is a quick action placed on the wireframe.
type ActionBox struct {
	Rect
	Action model.QuickAction
}

// Plan is the wireframe geometry for one viewport.
type Plan struct {
	Title       string
	Viewport    responsive.Viewport
	Class       responsive.DeviceClass
	Orientation responsive.Orientation
	Columns     int
	Padding     float64
	Gutter      float64
	Typography  responsive.Typography

	Header  Rect
	Cards   []CardBox
	Actions []ActionBox

	// Height covers all content and is at least the viewport height.
	Height float64
}

// MaxWireframeDimension bounds both sides of a wireframe in logical pixels.
const MaxWireframeDimension = 8192

func checkSize(w, h float64) error {
	if err := (responsive.Viewport{Width: w, Height: h}).Validate(); err != nil {
		return err
	}
	if w > MaxWireframeDimension || h > MaxWireframeDimension {
		return fmt.Errorf("wireframe %gx%g exceeds %d pixels: %w", w, h, MaxWireframeDimension, responsive.ErrInvalidDimension)
	}
	return nil
}

// NewPlan lays d out for the engine's current viewport.
func NewPlan(e *responsive.Engine, d *model.Dashboard) (*Plan, error) {
	s := e.Snapshot()
	if err := s.Viewport.Validate(); err != nil {
		return nil, fmt.Errorf("unable to plan wireframe: %w", err)
	}
	if err := checkSize(s.Viewport.Width, s.Viewport.Height); err != nil {
		return nil, fmt.Errorf("unable to plan wireframe: %w", err)
	}

	p := &Plan{
		Title:       d.Title,
		Viewport:    s.Viewport,
		Class:       s.Class,
		Orientation: s.Orientation,
		Columns:     max(1, s.Grid.Columns),
		Padding:     s.Padding,
		Gutter:      math.Max(1, s.Spacing.MD),
		Typography:  s.Typography,
	}

	width := s.Viewport.Width
	inner := math.Max(1, width-2*p.Padding)
	p.Header = Rect{X: p.Padding, Y: p.Padding, W: inner, H: 1.5*p.Typography.H1 + p.Typography.Caption}

	cardW := math.Max(1, (inner-float64(p.Columns-1)*p.Gutter)/float64(p.Columns))
	cardH := 2*p.Typography.H2 + 2*p.Typography.Caption
	y := p.Header.Y + p.Header.H + p.Gutter
	for i, c := range d.Cards {
		row, col := i/p.Columns, i%p.Columns
		p.Cards = append(p.Cards, CardBox{
			Rect: Rect{
				X: p.Padding + float64(col)*(cardW+p.Gutter),
				Y: y + float64(row)*(cardH+p.Gutter),
				W: cardW,
				H: cardH,
			},
			Card: c,
		})
	}
	if rows := (len(d.Cards) + p.Columns - 1) / p.Columns; rows > 0 {
		y += float64(rows) * (cardH + p.Gutter)
	}

	actionH := 2 * p.Typography.Body
	for i, a := range d.Actions {
		p.Actions = append(p.Actions, ActionBox{
			Rect:   Rect{X: p.Padding, Y: y + float64(i)*(actionH+p.Gutter/2), W: inner, H: actionH},
			Action: a,
		})
	}
	y += float64(len(d.Actions)) * (actionH + p.Gutter/2)

	p.Height = math.Max(s.Viewport.Height, y+p.Padding)
	if err := checkSize(width, p.Height); err != nil {
		return nil, fmt.Errorf("unable to plan wireframe: %w", err)
	}
	return p, nil
}

// Label describes the device the plan was computed for.
func (p *Plan) Label() string {
	return fmt.Sprintf("%s %s · %s · %d cols", p.Viewport, p.Class, p.Orientation, p.Columns)
}

func px(v float64) int { return int(math.Round(v)) }

// WriteSVG writes the plan as an SVG document.
func WriteSVG(w io.Writer, p *Plan) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(px(p.Viewport.Width), px(p.Height))
	canvas.Title(p.Title)
	canvas.Rect(0, 0, px(p.Viewport.Width), px(p.Height), "fill:#282A36")

	h := p.Header
	canvas.Text(px(h.X), px(h.Y+p.Typography.H1), p.Title,
		fmt.Sprintf("fill:#BD93F9;font-family:sans-serif;font-weight:bold;font-size:%dpx", px(p.Typography.H1)))
	canvas.Text(px(h.X), px(h.Y+h.H), p.Label(),
		fmt.Sprintf("fill:#6272A4;font-family:sans-serif;font-size:%dpx", px(p.Typography.Caption)))

	radius := px(p.Gutter / 2)
	canvas.Gid("cards")
	for _, c := range p.Cards {
		canvas.Roundrect(px(c.X), px(c.Y), px(c.W), px(c.H), radius, radius,
			"fill:#363949;stroke:"+toneHex(c.Card.Tone)+";stroke-width:2")
		canvas.Text(px(c.X+p.Gutter/2), px(c.Y+p.Typography.Caption+p.Gutter/2), c.Card.Title,
			fmt.Sprintf("fill:#BFBFBF;font-family:sans-serif;font-size:%dpx", px(p.Typography.Caption)))
		canvas.Text(px(c.X+p.Gutter/2), px(c.Y+c.H-p.Gutter/2), c.Card.Display(),
			fmt.Sprintf("fill:%s;font-family:sans-serif;font-weight:bold;font-size:%dpx", toneHex(c.Card.Tone), px(p.Typography.H2)))
	}
	canvas.Gend()

	canvas.Gid("actions")
	for _, a := range p.Actions {
		canvas.Roundrect(px(a.X), px(a.Y), px(a.W), px(a.H), radius, radius, "fill:none;stroke:#44475A")
		canvas.Text(px(a.X+p.Gutter/2), px(a.Y+a.H*0.7), actionText(a.Action),
			fmt.Sprintf("fill:#F8F8F2;font-family:sans-serif;font-size:%dpx", px(p.Typography.Body)))
	}
	canvas.Gend()

	canvas.End()
	return ew.err
}

// WritePNG rasterizes the plan at one pixel per logical pixel.
func WritePNG(w io.Writer, p *Plan) error {
	if err := checkSize(p.Viewport.Width, p.Height); err != nil {
		return err
	}
	dc := gg.NewContext(px(p.Viewport.Width), px(p.Height))
	dc.SetHexColor("#282A36")
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	h := p.Header
	dc.SetHexColor("#BD93F9")
	dc.DrawString(p.Title, h.X, h.Y+13)
	dc.SetHexColor("#6272A4")
	dc.DrawString(p.Label(), h.X, h.Y+h.H)

	radius := p.Gutter / 2
	for _, c := range p.Cards {
		dc.DrawRoundedRectangle(c.X, c.Y, c.W, c.H, radius)
		dc.SetHexColor("#363949")
		dc.FillPreserve()
		dc.SetHexColor(toneHex(c.Card.Tone))
		dc.SetLineWidth(2)
		dc.Stroke()

		dc.SetHexColor("#BFBFBF")
		dc.DrawString(fitText(c.Card.Title, c.W-radius*2), c.X+radius, c.Y+radius+13)
		dc.SetHexColor(toneHex(c.Card.Tone))
		dc.DrawString(fitText(c.Card.Display(), c.W-radius*2), c.X+radius, c.Y+c.H-radius)
	}

	for _, a := range p.Actions {
		dc.DrawRoundedRectangle(a.X, a.Y, a.W, a.H, radius)
		dc.SetHexColor("#44475A")
		dc.SetLineWidth(1)
		dc.Stroke()
		dc.SetHexColor("#F8F8F2")
		dc.DrawStringAnchored(fitText(actionText(a.Action), a.W-radius*2), a.X+radius, a.Y+a.H/2, 0, 0.5)
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("unable to encode png: %w", err)
	}
	return nil
}

func actionText(a model.QuickAction) string {
	if a.Key == "" {
		return a.Label
	}
	return "[" + a.Key + "] " + a.Label
}

// fitText trims s to the number of basicfont glyphs that fit in width.
func fitText(s string, width float64) string {
	n := int(width / float64(basicfont.Face7x13.Advance))
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}

func toneHex(t model.Tone) string {
	switch t {
	case model.TonePrimary:
		return "#BD93F9"
	case model.ToneSuccess:
		return "#50FA7B"
	case model.ToneWarning:
		return "#FFB86C"
	case model.ToneDanger:
		return "#FF5555"
	default:
		return "#8BE9FD"
	}
}

// errWriter remembers the first write error since svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(b []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(b)
	if err != nil {
		e.err = err
	}
	return n, err
}
