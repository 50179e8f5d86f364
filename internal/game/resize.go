package game

import (
	"github.com/iburimskiy/backdrop/internal/draw"
	"github.com/iburimskiy/backdrop/internal/logx"
	"github.com/iburimskiy/backdrop/internal/vec"
)

// ResizeAdapter keeps the viewport in step with the host surface.
type ResizeAdapter struct {
	viewport draw.Viewport
	changed  Signal[draw.Viewport]
}

// NewResizeAdapter starts from a width x height surface at dpr.
func NewResizeAdapter(width, height int, dpr float64) *ResizeAdapter {
	return &ResizeAdapter{viewport: draw.NewViewport(width, height, dpr)}
}

// Resize recomputes the viewport. Non-positive sizes are ignored and report
// false; so does a size that changes nothing.
func (a *ResizeAdapter) Resize(width, height int, dpr float64) (draw.Viewport, bool) {
	v := draw.NewViewport(width, height, dpr)
	if !v.Valid() {
		logx.Logger().Debug("resize: ignored", "width", width, "height", height)
		return a.viewport, false
	}
	if v == a.viewport {
		return v, false
	}
	a.viewport = v
	a.changed.Emit(v)
	return v, true
}

// Viewport returns the current viewport.
func (a *ResizeAdapter) Viewport() draw.Viewport { return a.viewport }

// ToLogical maps a host point to logical coordinates.
func (a *ResizeAdapter) ToLogical(x, y float64) vec.Vector2 {
	return a.viewport.ToLogical(x, y)
}

// OnChange subscribes fn to viewport changes.
func (a *ResizeAdapter) OnChange(fn func(draw.Viewport)) (cancel func()) {
	return a.changed.Subscribe(fn)
}

// Subscribers returns the number of change subscribers.
func (a *ResizeAdapter) Subscribers() int { return a.changed.Len() }
