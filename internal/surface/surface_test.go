package surface

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/backdrop/internal/draw"
	"github.com/iburimskiy/backdrop/internal/vec"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{A: 255}
)

func rgb8(c color.Color) (r, g, b uint32) {
	r, g, b, _ = c.RGBA()
	return r >> 8, g >> 8, b >> 8
}

func TestRasterGradientAndCircle(t *testing.T) {
	v := draw.NewViewport(40, 20, 1)
	r, err := NewRaster(v)
	require.NoError(t, err)
	defer r.Close()

	var l draw.List
	l.Add(draw.Gradient{Top: red, Bottom: blue})
	require.NoError(t, r.Paint(&l, v))

	img := r.Image()
	require.Equal(t, 40, img.Bounds().Dx())
	require.Equal(t, 20, img.Bounds().Dy())

	tr, _, tb := rgb8(img.At(20, 0))
	assert.Greater(t, tr, tb, "top row is red")
	br, _, bb := rgb8(img.At(20, 19))
	assert.Greater(t, bb, br, "bottom row is blue")

	l.Reset()
	l.Add(draw.Gradient{Top: black, Bottom: black})
	l.Add(draw.Circle{Center: vec.V(v.XRange/2, 50), Radius: 25, Color: white})
	require.NoError(t, r.Paint(&l, v))
	img = r.Image()

	cr, cg, cb := rgb8(img.At(20, 10))
	assert.Greater(t, cr, uint32(200))
	assert.Greater(t, cg, uint32(200))
	assert.Greater(t, cb, uint32(200))
	er, _, _ := rgb8(img.At(1, 1))
	assert.Less(t, er, uint32(30))
}

func TestRasterPathAndLine(t *testing.T) {
	v := draw.NewViewport(50, 50, 1)
	r, err := NewRaster(v)
	require.NoError(t, err)
	defer r.Close()

	p := &draw.Path{Fill: red}
	p.MoveTo(vec.V(10, 10))
	p.QuadTo(vec.V(50, 0), vec.V(90, 10))
	p.LineTo(vec.V(90, 90))
	p.LineTo(vec.V(10, 90))
	p.Close()

	var l draw.List
	l.Add(draw.Gradient{Top: black, Bottom: black})
	l.Add(p)
	l.Add(draw.Line{A: vec.V(0, 98), B: vec.V(100, 98), Width: 0.1, Color: blue})
	require.NoError(t, r.Paint(&l, v))

	img := r.Image()
	pr, _, _ := rgb8(img.At(25, 25))
	assert.Greater(t, pr, uint32(200), "inside the path")
	_, _, lb := rgb8(img.At(25, 1))
	assert.Greater(t, lb, uint32(50), "hairline stays visible")

	var buf bytes.Buffer
	require.NoError(t, r.EncodePNG(&buf))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestRasterRejectsEmptyViewport(t *testing.T) {
	_, err := NewRaster(draw.Viewport{})
	assert.ErrorIs(t, err, ErrInvalidViewport)
}

func TestTerminalHalfBlocks(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(8, 4)

	term, err := NewTerminal(screen)
	require.NoError(t, err)
	defer term.Close()

	v := TerminalViewport(8, 4)
	assert.Equal(t, 8, v.BackingWidth)
	assert.Equal(t, 8, v.BackingHeight)

	var l draw.List
	l.Add(draw.Gradient{Top: white, Bottom: white})
	require.NoError(t, term.Paint(&l, v))

	want := tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(255, 255, 255)).
		Background(tcell.NewRGBColor(255, 255, 255))
	mainc, _, style, _ := screen.GetContent(3, 2)
	assert.Equal(t, halfBlock, mainc)
	assert.Equal(t, want, style)
}

func TestCellToHost(t *testing.T) {
	v := TerminalViewport(10, 5)
	x, y := CellToHost(0, 0)
	p := v.ToLogical(x, y)
	assert.InDelta(t, v.XRange*0.05, p.X, 1e-9)
	assert.InDelta(t, 90, p.Y, 1e-9)
}

func TestEbitenVertices(t *testing.T) {
	v := draw.NewViewport(200, 100, 2)
	vs := gradientVertices(draw.Gradient{Top: red, Bottom: blue}, v)
	require.Len(t, vs, 4)
	assert.Equal(t, float32(400), vs[3].DstX)
	assert.Equal(t, float32(200), vs[3].DstY)
	assert.Equal(t, float32(1), vs[0].ColorR)
	assert.Equal(t, float32(1), vs[3].ColorB)

	p := &draw.Path{Fill: white}
	p.MoveTo(vec.V(10, 10))
	p.LineTo(vec.V(100, 10))
	p.LineTo(vec.V(100, 90))
	p.Close()
	pv, pi := pathVertices(p, v, nil, nil)
	assert.NotEmpty(t, pv)
	assert.NotEmpty(t, pi)
	for _, vx := range pv {
		assert.Equal(t, float32(1), vx.ColorA)
		assert.Equal(t, float32(1), vx.SrcX)
	}
}
