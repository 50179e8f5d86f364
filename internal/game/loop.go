package game

import (
	"time"

	"github.com/iburimskiy/backdrop/internal/draw"
)

// DefaultMaxFrameDelta caps dt after stalls such as a backgrounded window.
const DefaultMaxFrameDelta = 100 * time.Millisecond

// LoopOptions tunes a Loop.
type LoopOptions struct {
	// MaxFrameDelta clamps dt. Zero uses DefaultMaxFrameDelta.
	MaxFrameDelta time.Duration
	// OnTick runs at the start of every frame, before Update. It may stop
	// the loop, in which case the frame is abandoned.
	OnTick func(now time.Time)
	// OnFrame receives the primitive list after Draw.
	OnFrame func(l *draw.List)
}

// Loop drives one renderer from a Scheduler. There is at most one pending
// callback per loop.
type Loop struct {
	sched    Scheduler
	renderer Renderer
	list     *draw.List
	opts     LoopOptions

	id      FrameID
	pending bool
	running bool
	paused  bool

	last    time.Time
	hasLast bool
	frames  uint64
}

// NewLoop binds r to sched. Frames are drawn into list.
func NewLoop(sched Scheduler, r Renderer, list *draw.List, opts LoopOptions) *Loop {
	if opts.MaxFrameDelta <= 0 {
		opts.MaxFrameDelta = DefaultMaxFrameDelta
	}
	return &Loop{
		sched:    sched,
		renderer: r,
		list:     list,
		opts:     opts,
	}
}

// Start requests the first frame. Starting a running loop does nothing.
func (l *Loop) Start() {
	if l.running {
		return
	}
	l.running = true
	l.hasLast = false
	if !l.paused {
		l.request()
	}
}

// Stop cancels the pending frame synchronously; no further callback for
// this loop will run.
func (l *Loop) Stop() {
	if !l.running {
		return
	}
	l.running = false
	l.cancel()
}

// Pause suspends frames without stopping the loop.
func (l *Loop) Pause() {
	if l.paused {
		return
	}
	l.paused = true
	l.cancel()
}

// Resume restarts frames after Pause. The first frame after resuming has
// dt == 0.
func (l *Loop) Resume() {
	if !l.paused {
		return
	}
	l.paused = false
	l.hasLast = false
	if l.running {
		l.request()
	}
}

// Invalidate asks for one more frame, for renderers that only draw on
// demand.
func (l *Loop) Invalidate() {
	if l.running && !l.paused {
		l.request()
	}
}

// Running reports whether the loop was started and not stopped.
func (l *Loop) Running() bool { return l.running }

// Paused reports whether the loop is paused.
func (l *Loop) Paused() bool { return l.paused }

// Pending reports whether a frame callback is scheduled.
func (l *Loop) Pending() bool { return l.pending }

// Frames returns the number of frames drawn.
func (l *Loop) Frames() uint64 { return l.frames }

func (l *Loop) request() {
	if l.pending {
		return
	}
	l.id = l.sched.RequestFrame(l.tick)
	l.pending = true
}

func (l *Loop) cancel() {
	if !l.pending {
		return
	}
	l.sched.CancelFrame(l.id)
	l.pending = false
}

func (l *Loop) tick(now time.Time) {
	l.pending = false
	if !l.running || l.paused {
		return
	}

	var dt float64
	if l.hasLast {
		d := now.Sub(l.last)
		if d < 0 {
			d = 0
		}
		if d > l.opts.MaxFrameDelta {
			d = l.opts.MaxFrameDelta
		}
		dt = d.Seconds()
	}
	l.last = now
	l.hasLast = true

	if l.opts.OnTick != nil {
		l.opts.OnTick(now)
		if !l.running || l.paused {
			return
		}
	}

	l.renderer.Update(dt)
	l.list.Reset()
	l.renderer.Draw(l.list)
	l.frames++
	if l.opts.OnFrame != nil {
		l.opts.OnFrame(l.list)
	}

	if animated(l.renderer) {
		l.request()
	}
}
