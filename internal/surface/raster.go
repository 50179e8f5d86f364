// Package surface paints primitive lists onto concrete targets: an ebiten
// window, an offscreen gg raster, or a tcell terminal.
package surface

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/gogpu/gg"

	"github.com/iburimskiy/backdrop/internal/draw"
	"github.com/iburimskiy/backdrop/internal/logx"
)

// ErrInvalidViewport is returned when painting into an empty viewport.
var ErrInvalidViewport = errors.New("surface: invalid viewport")

// minStroke keeps hairlines visible on small rasters.
const minStroke = 1.0

// Raster paints into an offscreen gg context sized to the viewport's
// backing store.
type Raster struct {
	dc *gg.Context
}

// NewRaster allocates a raster for v.
func NewRaster(v draw.Viewport) (*Raster, error) {
	if !v.Valid() {
		return nil, ErrInvalidViewport
	}
	return &Raster{dc: gg.NewContext(v.BackingWidth, v.BackingHeight)}, nil
}

// Paint clears the raster and draws l in order. A primitive that fails to
// rasterise is skipped; the first such error is returned after the rest
// have been drawn.
func (r *Raster) Paint(l *draw.List, v draw.Viewport) error {
	if !v.Valid() {
		return ErrInvalidViewport
	}
	if err := r.dc.Resize(v.BackingWidth, v.BackingHeight); err != nil {
		return fmt.Errorf("surface: resize raster: %w", err)
	}
	r.dc.Clear()

	var first error
	for _, p := range l.Items() {
		if err := r.paint(p, v); err != nil {
			logx.Logger().Warn("surface: raster skipped primitive", "err", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func (r *Raster) paint(p draw.Primitive, v draw.Viewport) error {
	unit := v.UnitPixels()
	switch p := p.(type) {
	case draw.Gradient:
		h := float64(v.BackingHeight)
		r.dc.SetFillBrush(gg.NewLinearGradientBrush(0, 0, 0, h).
			AddColorStop(0, rgba(p.Top)).
			AddColorStop(1, rgba(p.Bottom)))
		r.dc.DrawRectangle(0, 0, float64(v.BackingWidth), h)
		return r.dc.Fill()
	case draw.Circle:
		x, y := v.ToPixel(p.Center)
		r.dc.SetFillBrush(gg.Solid(rgba(p.Color)))
		r.dc.DrawCircle(x, y, p.Radius*unit)
		return r.dc.Fill()
	case draw.Line:
		x0, y0 := v.ToPixel(p.A)
		x1, y1 := v.ToPixel(p.B)
		r.dc.SetFillBrush(gg.Solid(rgba(p.Color)))
		r.dc.SetLineWidth(math.Max(p.Width*unit, minStroke))
		r.dc.DrawLine(x0, y0, x1, y1)
		return r.dc.Stroke()
	case *draw.Path:
		r.trace(p, v)
		r.dc.SetFillBrush(gg.Solid(rgba(p.Fill)))
		return r.dc.Fill()
	}
	return fmt.Errorf("surface: unknown primitive %T", p)
}

func (r *Raster) trace(p *draw.Path, v draw.Viewport) {
	for _, s := range p.Segments {
		switch s.Op {
		case draw.OpMove:
			x, y := v.ToPixel(s.To)
			r.dc.MoveTo(x, y)
		case draw.OpLine:
			x, y := v.ToPixel(s.To)
			r.dc.LineTo(x, y)
		case draw.OpQuad:
			cx, cy := v.ToPixel(s.Ctrl)
			x, y := v.ToPixel(s.To)
			r.dc.QuadraticTo(cx, cy, x, y)
		case draw.OpClose:
			r.dc.ClosePath()
		}
	}
}

// Image returns the painted pixels.
func (r *Raster) Image() image.Image { return r.dc.Image() }

// EncodePNG writes the painted pixels as PNG.
func (r *Raster) EncodePNG(w io.Writer) error { return r.dc.EncodePNG(w) }

// SavePNG writes the painted pixels to a PNG file.
func (r *Raster) SavePNG(path string) error { return r.dc.SavePNG(path) }

// Close releases the context.
func (r *Raster) Close() error { return r.dc.Close() }

func rgba(c color.NRGBA) gg.RGBA {
	return gg.RGBA{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}
