package game

import "github.com/iburimskiy/backdrop/internal/vec"

// Signal is a synchronous, single-goroutine event source.
type Signal[T any] struct {
	next int
	subs []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Subscribe registers fn and returns the function that removes it. The
// returned function may be called more than once.
func (s *Signal[T]) Subscribe(fn func(T)) (cancel func()) {
	s.next++
	id := s.next
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Emit calls every subscriber in subscription order. Subscribers added or
// removed during Emit take effect on the next one.
func (s *Signal[T]) Emit(v T) {
	subs := s.subs
	for _, sub := range subs {
		sub.fn(v)
	}
}

// Len returns the number of subscribers.
func (s *Signal[T]) Len() int { return len(s.subs) }

// Point is a pointer position in host units (window points or terminal
// cells), origin top-left.
type Point struct {
	X, Y float64
}

// Signals are the host-facing inputs of an Engine.
type Signals struct {
	PointerMove  Signal[Point]
	PointerClick Signal[Point]
	Scroll       Signal[float64] // absolute offset
	Visibility   Signal[bool]
}

// Subscribers returns the total subscriber count across all signals.
func (s *Signals) Subscribers() int {
	return s.PointerMove.Len() + s.PointerClick.Len() + s.Scroll.Len() + s.Visibility.Len()
}

// logical maps a host point through the viewport.
func (p Point) logical(a *ResizeAdapter) vec.Vector2 {
	return a.ToLogical(p.X, p.Y)
}
