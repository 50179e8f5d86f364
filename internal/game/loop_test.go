package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/backdrop/internal/draw"
	"github.com/iburimskiy/backdrop/internal/vec"
)

type fakeRenderer struct {
	dts      []float64
	draws    int
	resized  []draw.Viewport
	disposed bool
	still    bool
}

func (f *fakeRenderer) Update(dt float64) { f.dts = append(f.dts, dt) }
func (f *fakeRenderer) Draw(l *draw.List) {
	f.draws++
	l.Add(draw.Circle{Center: vec.V(1, 1), Radius: 1})
}
func (f *fakeRenderer) Resize(v draw.Viewport) { f.resized = append(f.resized, v) }
func (f *fakeRenderer) Dispose()               { f.disposed = true }
func (f *fakeRenderer) Animated() bool         { return !f.still }

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(d time.Duration) time.Time { return t0.Add(d) }

func TestSchedulerDefersRequestsMadeDuringFire(t *testing.T) {
	s := NewFrameScheduler()
	var order []string
	s.RequestFrame(func(time.Time) {
		order = append(order, "a")
		s.RequestFrame(func(time.Time) { order = append(order, "c") })
	})
	s.RequestFrame(func(time.Time) { order = append(order, "b") })

	require.Equal(t, 2, s.Fire(t0))
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 1, s.Pending())

	require.Equal(t, 1, s.Fire(t0))
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Zero(t, s.Fire(t0))
}

func TestSchedulerCancel(t *testing.T) {
	s := NewFrameScheduler()
	ran := 0
	var second FrameID
	s.RequestFrame(func(time.Time) { s.CancelFrame(second) })
	second = s.RequestFrame(func(time.Time) { ran++ })
	third := s.RequestFrame(func(time.Time) { ran++ })
	s.CancelFrame(third)
	s.CancelFrame(FrameID(999))

	assert.Equal(t, 1, s.Fire(t0))
	assert.Zero(t, ran)
}

func TestLoopDeltaTime(t *testing.T) {
	s := NewFrameScheduler()
	r := &fakeRenderer{}
	var list draw.List
	l := NewLoop(s, r, &list, LoopOptions{})
	l.Start()

	s.Fire(at(0))
	s.Fire(at(16 * time.Millisecond))
	s.Fire(at(5 * time.Second))

	require.Len(t, r.dts, 3)
	assert.Zero(t, r.dts[0])
	assert.InDelta(t, 0.016, r.dts[1], 1e-9)
	assert.InDelta(t, DefaultMaxFrameDelta.Seconds(), r.dts[2], 1e-9)
	assert.Equal(t, 1, list.Len())
	assert.EqualValues(t, 3, l.Frames())
}

func TestLoopStopCancelsSynchronously(t *testing.T) {
	s := NewFrameScheduler()
	r := &fakeRenderer{}
	var list draw.List
	l := NewLoop(s, r, &list, LoopOptions{})

	l.Start()
	l.Start()
	assert.Equal(t, 1, s.Pending(), "a second Start must not add a chain")

	l.Stop()
	assert.Zero(t, s.Pending())
	assert.False(t, l.Running())
	assert.Zero(t, s.Fire(at(0)))
	assert.Empty(t, r.dts)
}

func TestLoopPauseResume(t *testing.T) {
	s := NewFrameScheduler()
	r := &fakeRenderer{}
	var list draw.List
	l := NewLoop(s, r, &list, LoopOptions{})
	l.Start()
	s.Fire(at(0))
	s.Fire(at(10 * time.Millisecond))

	l.Pause()
	assert.Zero(t, s.Pending())
	assert.True(t, l.Paused())

	l.Resume()
	s.Fire(at(3 * time.Second))
	s.Fire(at(3*time.Second + 20*time.Millisecond))

	require.Len(t, r.dts, 4)
	assert.Zero(t, r.dts[2], "first frame after resume")
	assert.InDelta(t, 0.02, r.dts[3], 1e-9)
}

func TestLoopOnTickMayStop(t *testing.T) {
	s := NewFrameScheduler()
	r := &fakeRenderer{}
	var list draw.List
	var l *Loop
	l = NewLoop(s, r, &list, LoopOptions{OnTick: func(time.Time) { l.Stop() }})
	l.Start()

	s.Fire(at(0))
	assert.Empty(t, r.dts)
	assert.Zero(t, s.Pending())
}

func TestLoopStillRendererDrawsOnDemand(t *testing.T) {
	s := NewFrameScheduler()
	r := &fakeRenderer{still: true}
	var list draw.List
	frames := 0
	l := NewLoop(s, r, &list, LoopOptions{OnFrame: func(*draw.List) { frames++ }})
	l.Start()

	s.Fire(at(0))
	assert.Zero(t, s.Pending())
	assert.Equal(t, 1, r.draws)

	l.Invalidate()
	l.Invalidate()
	assert.Equal(t, 1, s.Pending())
	s.Fire(at(time.Second))
	assert.Equal(t, 2, r.draws)
	assert.Equal(t, 2, frames)
}

func TestSignalSubscribeCancel(t *testing.T) {
	var sig Signal[int]
	var got []int
	cancelA := sig.Subscribe(func(v int) { got = append(got, v) })
	var cancelB func()
	cancelB = sig.Subscribe(func(v int) {
		got = append(got, v*10)
		cancelB()
	})
	assert.Equal(t, 2, sig.Len())

	sig.Emit(1)
	sig.Emit(2)
	assert.Equal(t, []int{1, 10, 2}, got)

	cancelA()
	cancelA()
	assert.Zero(t, sig.Len())
}

func TestResizeAdapter(t *testing.T) {
	a := NewResizeAdapter(100, 100, 1)
	var seen []draw.Viewport
	cancel := a.OnChange(func(v draw.Viewport) { seen = append(seen, v) })

	v, ok := a.Resize(1600, 900, 2)
	require.True(t, ok)
	assert.Equal(t, 3200, v.BackingWidth)
	assert.Equal(t, 1800, v.BackingHeight)
	assert.InDelta(t, 100*1600.0/900.0, v.XRange, 1e-9)
	assert.Len(t, seen, 1)

	_, ok = a.Resize(1600, 900, 2)
	assert.False(t, ok, "unchanged size")
	_, ok = a.Resize(0, 900, 2)
	assert.False(t, ok)
	_, ok = a.Resize(1600, -1, 2)
	assert.False(t, ok)
	assert.Equal(t, v, a.Viewport())

	p := a.ToLogical(800, 0)
	assert.InDelta(t, v.XRange/2, p.X, 1e-9)
	assert.InDelta(t, draw.LogicalHeight, p.Y, 1e-9)

	cancel()
	a.Resize(640, 480, 1)
	assert.Len(t, seen, 1)
	assert.Zero(t, a.Subscribers())
}
