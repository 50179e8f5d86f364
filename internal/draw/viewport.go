package draw

import (
	"math"

	"github.com/iburimskiy/backdrop/internal/vec"
)

// LogicalHeight is the fixed height of the logical coordinate space.
const LogicalHeight = 100.0

// Viewport maps the logical coordinate space onto a backing store.
//
// Logical y grows upward: y=LogicalHeight is the top edge and y=0 the
// bottom edge. Width and Height are in host units (window points, terminal
// cells); the backing store is scaled by DPR.
type Viewport struct {
	Width, Height               int
	DPR                         float64
	BackingWidth, BackingHeight int
	Aspect                      float64
	XRange                      float64
}

// NewViewport builds a viewport for a host area of w×h units at the given
// device pixel ratio. It returns the zero Viewport for degenerate sizes.
func NewViewport(w, h int, dpr float64) Viewport {
	if w <= 0 || h <= 0 {
		return Viewport{}
	}
	if dpr <= 0 {
		dpr = 1
	}
	aspect := float64(w) / float64(h)
	return Viewport{
		Width:         w,
		Height:        h,
		DPR:           dpr,
		BackingWidth:  int(math.Round(float64(w) * dpr)),
		BackingHeight: int(math.Round(float64(h) * dpr)),
		Aspect:        aspect,
		XRange:        LogicalHeight * aspect,
	}
}

// Valid reports whether the viewport has a non-empty area.
func (v Viewport) Valid() bool { return v.BackingWidth > 0 && v.BackingHeight > 0 }

// UnitPixels returns the backing-store pixels per logical unit.
func (v Viewport) UnitPixels() float64 {
	return float64(v.BackingHeight) / LogicalHeight
}

// ToPixel maps a logical point to backing-store pixels.
func (v Viewport) ToPixel(p vec.Vector2) (x, y float64) {
	if v.XRange == 0 {
		return 0, 0
	}
	x = p.X / v.XRange * float64(v.BackingWidth)
	y = (LogicalHeight - p.Y) / LogicalHeight * float64(v.BackingHeight)
	return x, y
}

// ToLogical maps a host-unit position (cursor, mouse cell) to logical space.
func (v Viewport) ToLogical(hx, hy float64) vec.Vector2 {
	if v.Width == 0 || v.Height == 0 {
		return vec.Vector2{}
	}
	return vec.Vector2{
		X: hx / float64(v.Width) * v.XRange,
		Y: LogicalHeight - hy/float64(v.Height)*LogicalHeight,
	}
}
