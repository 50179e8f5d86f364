package surface

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/backdrop/internal/draw"
)

var gradientIndices = []uint16{0, 1, 2, 1, 2, 3}

// Ebiten paints primitive lists onto an ebiten screen image.
type Ebiten struct {
	// AntiAlias smooths circles, lines and paths at some GPU cost.
	AntiAlias bool

	white *ebiten.Image
	vs    []ebiten.Vertex
	is    []uint16
}

// NewEbiten returns an ebiten surface.
func NewEbiten(antiAlias bool) *Ebiten {
	return &Ebiten{AntiAlias: antiAlias}
}

// source is a one-pixel white image used as the texture for filled
// triangles.
func (e *Ebiten) source() *ebiten.Image {
	if e.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		e.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return e.white
}

// Paint draws l onto dst, which must match v's backing store.
func (e *Ebiten) Paint(dst *ebiten.Image, l *draw.List, v draw.Viewport) {
	if !v.Valid() {
		return
	}
	unit := v.UnitPixels()
	for _, p := range l.Items() {
		switch p := p.(type) {
		case draw.Gradient:
			vs := gradientVertices(p, v)
			dst.DrawTriangles(vs, gradientIndices, e.source(), &ebiten.DrawTrianglesOptions{})
		case draw.Circle:
			x, y := v.ToPixel(p.Center)
			vector.DrawFilledCircle(dst, float32(x), float32(y), float32(p.Radius*unit), p.Color, e.AntiAlias)
		case draw.Line:
			x0, y0 := v.ToPixel(p.A)
			x1, y1 := v.ToPixel(p.B)
			w := math.Max(p.Width*unit, minStroke)
			vector.StrokeLine(dst, float32(x0), float32(y0), float32(x1), float32(y1), float32(w), p.Color, e.AntiAlias)
		case *draw.Path:
			e.vs, e.is = pathVertices(p, v, e.vs[:0], e.is[:0])
			dst.DrawTriangles(e.vs, e.is, e.source(), &ebiten.DrawTrianglesOptions{
				FillRule:  ebiten.FillRuleNonZero,
				AntiAlias: e.AntiAlias,
			})
		}
	}
}

// gradientVertices spans the backing store with a vertical two-stop
// gradient.
func gradientVertices(g draw.Gradient, v draw.Viewport) []ebiten.Vertex {
	w, h := float32(v.BackingWidth), float32(v.BackingHeight)
	vs := []ebiten.Vertex{
		{DstX: 0, DstY: 0},
		{DstX: w, DstY: 0},
		{DstX: 0, DstY: h},
		{DstX: w, DstY: h},
	}
	for i := range vs {
		c := g.Top
		if i >= 2 {
			c = g.Bottom
		}
		tint(&vs[i], c)
	}
	return vs
}

// pathVertices tessellates p in pixel space and tints every vertex with
// its fill.
func pathVertices(p *draw.Path, v draw.Viewport, vs []ebiten.Vertex, is []uint16) ([]ebiten.Vertex, []uint16) {
	var vp vector.Path
	for _, s := range p.Segments {
		switch s.Op {
		case draw.OpMove:
			x, y := v.ToPixel(s.To)
			vp.MoveTo(float32(x), float32(y))
		case draw.OpLine:
			x, y := v.ToPixel(s.To)
			vp.LineTo(float32(x), float32(y))
		case draw.OpQuad:
			cx, cy := v.ToPixel(s.Ctrl)
			x, y := v.ToPixel(s.To)
			vp.QuadTo(float32(cx), float32(cy), float32(x), float32(y))
		case draw.OpClose:
			vp.Close()
		}
	}
	vs, is = vp.AppendVerticesAndIndicesForFilling(vs, is)
	for i := range vs {
		tint(&vs[i], p.Fill)
	}
	return vs, is
}

func tint(vx *ebiten.Vertex, c color.NRGBA) {
	vx.SrcX, vx.SrcY = 1, 1
	vx.ColorR = float32(c.R) / 255
	vx.ColorG = float32(c.G) / 255
	vx.ColorB = float32(c.B) / 255
	vx.ColorA = float32(c.A) / 255
}
