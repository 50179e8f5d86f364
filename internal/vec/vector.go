// Package vec provides the 2D vector value type used by the simulations.
package vec

import "math"

// Vector2 is a 2D vector in logical coordinates. It is a plain value and
// may be copied freely.
type Vector2 struct {
	X, Y float64
}

// V is shorthand for Vector2{x, y}.
func V(x, y float64) Vector2 { return Vector2{X: x, Y: y} }

// Add returns a+b.
func Add(a, b Vector2) Vector2 { return Vector2{a.X + b.X, a.Y + b.Y} }

// Sub returns a-b.
func Sub(a, b Vector2) Vector2 { return Vector2{a.X - b.X, a.Y - b.Y} }

// Scale returns v*s.
func Scale(v Vector2, s float64) Vector2 { return Vector2{v.X * s, v.Y * s} }

// Length returns the Euclidean length of v.
func Length(v Vector2) float64 { return math.Hypot(v.X, v.Y) }

// LengthSq returns the squared length, avoiding the sqrt.
func LengthSq(v Vector2) float64 { return v.X*v.X + v.Y*v.Y }

// Normalize returns the unit vector along v, zero-safe.
func Normalize(v Vector2) Vector2 {
	l := Length(v)
	if l == 0 {
		return Vector2{}
	}
	return Vector2{v.X / l, v.Y / l}
}

// Distance returns |a-b|.
func Distance(a, b Vector2) float64 { return Length(Sub(a, b)) }

// Lerp interpolates between a and b by t.
func Lerp(a, b Vector2, t float64) Vector2 {
	return Vector2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// Mid returns the midpoint of a and b.
func Mid(a, b Vector2) Vector2 { return Lerp(a, b, 0.5) }

// Add returns v+o.
func (v Vector2) Add(o Vector2) Vector2 { return Add(v, o) }

// Sub returns v-o.
func (v Vector2) Sub(o Vector2) Vector2 { return Sub(v, o) }

// Scale returns v*s.
func (v Vector2) Scale(s float64) Vector2 { return Scale(v, s) }

// Length returns |v|.
func (v Vector2) Length() float64 { return Length(v) }

// Normalize returns v scaled to unit length, or zero.
func (v Vector2) Normalize() Vector2 { return Normalize(v) }

// DistanceTo returns |v-o|.
func (v Vector2) DistanceTo(o Vector2) float64 { return Distance(v, o) }

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Smoothstep is the cubic Hermite step between edge0 and edge1.
func Smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}
