package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Dicklesworthstone/statdash/pkg/dimension"
	"github.com/Dicklesworthstone/statdash/pkg/model"
	"github.com/Dicklesworthstone/statdash/pkg/responsive"
)

// Format is a wireframe output format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat accepts "svg" or "png" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatSVG, FormatPNG:
		return f, nil
	}
	return "", fmt.Errorf("unsupported wireframe format %q (use svg or png)", s)
}

// Preset is a named device viewport.
type Preset struct {
	Name     string
	Viewport responsive.Viewport
}

// Presets are portrait viewports, one per device class.
var Presets = []Preset{
	{Name: "small-phone", Viewport: responsive.Viewport{Width: 320, Height: 640}},
	{Name: "large-phone", Viewport: responsive.Viewport{Width: 414, Height: 896}},
	{Name: "tablet", Viewport: responsive.Viewport{Width: 800, Height: 1024}},
	{Name: "large-tablet", Viewport: responsive.Viewport{Width: 1024, Height: 1366}},
}

// LookupPreset finds a preset by name. A "-landscape" suffix rotates it.
func LookupPreset(name string) (Preset, bool) {
	base, landscape := strings.CutSuffix(strings.ToLower(name), "-landscape")
	for _, p := range Presets {
		if p.Name != base {
			continue
		}
		if landscape {
			p.Name = name
			p.Viewport = responsive.Viewport{Width: p.Viewport.Height, Height: p.Viewport.Width}
		}
		return p, true
	}
	return Preset{}, false
}

// Render plans d for viewport v and writes it to w in format f.
func Render(w io.Writer, f Format, v responsive.Viewport, d *model.Dashboard, opts ...responsive.Option) error {
	e := responsive.New(dimension.NewSource(v), opts...)
	defer e.Close()

	p, err := NewPlan(e, d)
	if err != nil {
		return err
	}
	switch f {
	case FormatSVG:
		return WriteSVG(w, p)
	case FormatPNG:
		return WritePNG(w, p)
	}
	return fmt.Errorf("unsupported wireframe format %q", f)
}

// SaveWireframe renders to path. An empty format is taken from the path extension.
func SaveWireframe(path string, f Format, v responsive.Viewport, d *model.Dashboard, opts ...responsive.Option) error {
	if f == "" {
		var err error
		if f, err = ParseFormat(filepath.Ext(path)); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := Render(&buf, f, v, d, opts...); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("unable to write wireframe: %w", err)
	}
	return nil
}
