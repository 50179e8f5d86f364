package game

import "time"

// FrameID identifies a requested frame callback. Zero is never issued.
type FrameID uint64

// FrameFunc runs once when the host presents the next frame.
type FrameFunc func(now time.Time)

// Scheduler requests one-shot callbacks for the next display frame.
type Scheduler interface {
	RequestFrame(fn FrameFunc) FrameID
	CancelFrame(id FrameID)
}

type pendingFrame struct {
	id FrameID
	fn FrameFunc
}

// FrameScheduler is a host-driven Scheduler: the host calls Fire once per
// display frame. Callbacks requested while Fire runs wait for the next call.
type FrameScheduler struct {
	next    FrameID
	pending []pendingFrame
	firing  []pendingFrame
}

var _ Scheduler = (*FrameScheduler)(nil)

// NewFrameScheduler returns an empty scheduler.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{}
}

// RequestFrame implements Scheduler.
func (s *FrameScheduler) RequestFrame(fn FrameFunc) FrameID {
	s.next++
	s.pending = append(s.pending, pendingFrame{id: s.next, fn: fn})
	return s.next
}

// CancelFrame implements Scheduler. Unknown or already fired ids are ignored.
func (s *FrameScheduler) CancelFrame(id FrameID) {
	for i, p := range s.pending {
		if p.id == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
	// a callback of the running batch may cancel a later one
	for i := range s.firing {
		if s.firing[i].id == id {
			s.firing[i].fn = nil
			return
		}
	}
}

// Fire runs the callbacks queued before the call and returns how many ran.
func (s *FrameScheduler) Fire(now time.Time) int {
	if len(s.pending) == 0 {
		return 0
	}
	s.firing, s.pending = s.pending, nil

	ran := 0
	for i := range s.firing {
		fn := s.firing[i].fn
		if fn == nil {
			continue
		}
		s.firing[i].fn = nil
		fn(now)
		ran++
	}
	s.firing = nil
	return ran
}

// Pending returns the number of queued callbacks.
func (s *FrameScheduler) Pending() int { return len(s.pending) }
