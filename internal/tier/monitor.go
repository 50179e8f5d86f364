package tier

import "time"

// Monitor counts frames and closes a sampling window every Window.
type Monitor struct {
	window  time.Duration
	frames  int
	start   time.Time
	started bool
	last    int
	history *History
}

// NewMonitor returns a monitor keeping historySize closed windows.
func NewMonitor(historySize int) *Monitor {
	return &Monitor{
		window:  Window,
		history: NewHistory(historySize),
	}
}

// Tick records one frame at now. The first tick after construction or Reset
// only opens the window. When a window closes, Tick returns the frame count
// of that window and true.
func (m *Monitor) Tick(now time.Time) (fps int, closed bool) {
	if !m.started {
		m.start = now
		m.started = true
		m.frames = 0
		return 0, false
	}
	m.frames++
	if now.Sub(m.start) < m.window {
		return 0, false
	}
	fps = m.frames
	m.frames = 0
	m.start = now
	m.last = fps
	m.history.Record(fps)
	return fps, true
}

// Reset discards the partial window. The next Tick opens a fresh one.
func (m *Monitor) Reset() {
	m.started = false
	m.frames = 0
}

// Last returns the most recent closed-window frame rate, or 0.
func (m *Monitor) Last() int { return m.last }

// Recent returns up to n closed-window rates, oldest first.
func (m *Monitor) Recent(n int) []int { return m.history.Snapshot(n) }

// History is a fixed-size ring of frame-rate samples.
type History struct {
	buffer    []int
	nextIndex int
	filled    int
}

// NewHistory returns a ring holding size samples.
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{buffer: make([]int, size)}
}

// Record appends a sample, overwriting the oldest when full.
func (h *History) Record(fps int) {
	h.buffer[h.nextIndex] = fps
	h.nextIndex++
	if h.nextIndex >= len(h.buffer) {
		h.nextIndex = 0
	}
	if h.filled < len(h.buffer) {
		h.filled++
	}
}

// Snapshot returns up to the last n samples, most recent last.
func (h *History) Snapshot(n int) []int {
	if n > h.filled {
		n = h.filled
	}
	out := make([]int, 0, n)
	idx := h.nextIndex - 1
	if idx < 0 {
		idx = len(h.buffer) - 1
	}
	for i := 0; i < n; i++ {
		out = append(out, h.buffer[idx])
		idx--
		if idx < 0 {
			idx = len(h.buffer) - 1
		}
	}
	// reverse to chronological order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
