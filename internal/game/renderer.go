package game

import (
	"github.com/iburimskiy/backdrop/internal/draw"
	"github.com/iburimskiy/backdrop/internal/graph"
	"github.com/iburimskiy/backdrop/internal/morph"
	"github.com/iburimskiy/backdrop/internal/vec"
)

// Renderer is one tier's drawing strategy. All calls happen on the frame
// callback goroutine.
type Renderer interface {
	Update(dt float64)
	Draw(l *draw.List)
	Resize(v draw.Viewport)
	Dispose()
}

// PointerHandler is implemented by renderers that react to the pointer.
type PointerHandler interface {
	PointerMove(p vec.Vector2)
	PointerClick() bool
}

// Scroller is implemented by renderers that react to scrolling.
type Scroller interface {
	Scroll(offset float64)
}

// Animator reports whether a renderer needs a frame every display refresh.
// Renderers that do not implement it are animated.
type Animator interface {
	Animated() bool
}

func animated(r Renderer) bool {
	if a, ok := r.(Animator); ok {
		return a.Animated()
	}
	return true
}

var (
	_ PointerHandler = (*graph.Simulation)(nil)
	_ Renderer       = (*graph.Simulation)(nil)
	_ Scroller       = (*morph.Renderer)(nil)
	_ Renderer       = (*morph.Renderer)(nil)
	_ Renderer       = (*Static)(nil)
)

// Static is the low-tier renderer: the theme's background gradient, drawn
// once and again only after a resize.
type Static struct {
	palette draw.Palette
}

// NewStatic returns a gradient renderer for p.
func NewStatic(p draw.Palette) *Static {
	return &Static{palette: p}
}

func (*Static) Update(float64)       {}
func (*Static) Resize(draw.Viewport) {}
func (*Static) Dispose()             {}
func (*Static) Animated() bool       { return false }

// Draw implements Renderer.
func (s *Static) Draw(l *draw.List) {
	l.Add(draw.Gradient{Top: s.palette.BackgroundTop, Bottom: s.palette.BackgroundBottom})
}
