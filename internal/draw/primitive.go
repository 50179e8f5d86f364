// Package draw defines the primitives renderers emit each frame and the
// viewport used to map them onto a concrete surface.
//
// Renderers never touch a surface directly: they append Circle, Line, Path
// and Gradient values to a List in logical coordinates, and a surface
// adapter paints the list.
package draw

import (
	"image/color"

	"github.com/iburimskiy/backdrop/internal/vec"
)

// Primitive is one drawable item. The set is closed.
type Primitive interface {
	primitive()
}

// Circle is a filled disc.
type Circle struct {
	Center vec.Vector2
	Radius float64
	Color  color.NRGBA
}

// Line is a stroked segment. Width is in logical units.
type Line struct {
	A, B  vec.Vector2
	Width float64
	Color color.NRGBA
}

// SegmentOp is the kind of a path segment.
type SegmentOp uint8

const (
	OpMove SegmentOp = iota
	OpLine
	OpQuad
	OpClose
)

// Segment is one path command. Ctrl is only meaningful for OpQuad.
type Segment struct {
	Op   SegmentOp
	Ctrl vec.Vector2
	To   vec.Vector2
}

// Path is a filled outline built from move/line/quadratic segments.
type Path struct {
	Segments []Segment
	Fill     color.NRGBA
}

// MoveTo starts a new sub-path.
func (p *Path) MoveTo(to vec.Vector2) { p.Segments = append(p.Segments, Segment{Op: OpMove, To: to}) }

// LineTo appends a straight segment.
func (p *Path) LineTo(to vec.Vector2) { p.Segments = append(p.Segments, Segment{Op: OpLine, To: to}) }

// QuadTo appends a quadratic segment.
func (p *Path) QuadTo(ctrl, to vec.Vector2) {
	p.Segments = append(p.Segments, Segment{Op: OpQuad, Ctrl: ctrl, To: to})
}

// Close closes the current sub-path.
func (p *Path) Close() { p.Segments = append(p.Segments, Segment{Op: OpClose}) }

// Closed reports whether the last segment closes the path.
func (p *Path) Closed() bool {
	return len(p.Segments) > 0 && p.Segments[len(p.Segments)-1].Op == OpClose
}

// Gradient fills the whole surface with a vertical two-stop gradient.
type Gradient struct {
	Top, Bottom color.NRGBA
}

func (Circle) primitive()   {}
func (Line) primitive()     {}
func (*Path) primitive()    {}
func (Gradient) primitive() {}

// List is the ordered output of one frame. It is reused between frames.
type List struct {
	items []Primitive
}

// Add appends p.
func (l *List) Add(p Primitive) { l.items = append(l.items, p) }

// Reset empties the list, keeping its capacity.
func (l *List) Reset() {
	clear(l.items)
	l.items = l.items[:0]
}

// Items returns the primitives in paint order. The slice is only valid until
// the next Reset.
func (l *List) Items() []Primitive { return l.items }

// Len returns the number of primitives.
func (l *List) Len() int { return len(l.items) }

// Count returns how many primitives of each kind the list holds.
func (l *List) Count() (circles, lines, paths, gradients int) {
	for _, p := range l.items {
		switch p.(type) {
		case Circle:
			circles++
		case Line:
			lines++
		case *Path:
			paths++
		case Gradient:
			gradients++
		}
	}
	return
}
