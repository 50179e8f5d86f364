package game

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/backdrop/internal/config"
	"github.com/iburimskiy/backdrop/internal/logx"
	"github.com/iburimskiy/backdrop/internal/surface"
)

// TerminalFrameInterval paces the terminal host at about 30 fps.
const TerminalFrameInterval = 33 * time.Millisecond

const eventBuffer = 100

// TerminalHost runs an Engine on a tcell screen. Cells are drawn as two
// stacked pixels, mouse motion drives the pointer and focus reports drive
// visibility.
type TerminalHost struct {
	screen  tcell.Screen
	engine  *Engine
	sched   *FrameScheduler
	signals *Signals
	surface *surface.Terminal

	scroll  float64
	pressed bool
}

// NewTerminalHost wraps an initialised screen.
func NewTerminalHost(screen tcell.Screen, cfg *config.Config, opts ...EngineOption) (*TerminalHost, error) {
	term, err := surface.NewTerminal(screen)
	if err != nil {
		return nil, err
	}
	screen.EnableMouse()
	screen.EnableFocus()

	cols, rows := screen.Size()
	v := surface.TerminalViewport(cols, rows)
	opts = append([]EngineOption{WithViewport(v.Width, v.Height, 1)}, opts...)

	sched := NewFrameScheduler()
	signals := &Signals{}
	return &TerminalHost{
		screen:  screen,
		engine:  NewEngine(cfg, sched, signals, opts...),
		sched:   sched,
		signals: signals,
		surface: term,
	}, nil
}

// Engine returns the hosted engine.
func (h *TerminalHost) Engine() *Engine { return h.engine }

// HandleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (h *TerminalHost) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}

	case *tcell.EventResize:
		cols, rows := h.screen.Size()
		v := surface.TerminalViewport(cols, rows)
		h.engine.Resize(v.Width, v.Height, 1)
		h.screen.Sync()

	case *tcell.EventMouse:
		col, row := ev.Position()
		x, y := surface.CellToHost(col, row)
		p := Point{X: x, Y: y}
		h.signals.PointerMove.Emit(p)

		buttons := ev.Buttons()
		down := buttons&tcell.Button1 != 0
		if down && !h.pressed {
			h.signals.PointerClick.Emit(p)
		}
		h.pressed = down

		switch {
		case buttons&tcell.WheelUp != 0:
			h.scroll = max(h.scroll-scrollStep, 0)
			h.signals.Scroll.Emit(h.scroll)
		case buttons&tcell.WheelDown != 0:
			h.scroll += scrollStep
			h.signals.Scroll.Emit(h.scroll)
		}

	case *tcell.EventFocus:
		h.signals.Visibility.Emit(ev.Focused)
	}
	return true
}

// Frame fires due frame callbacks and repaints when any of them ran.
func (h *TerminalHost) Frame(now time.Time) error {
	if h.sched.Fire(now) == 0 {
		return nil
	}
	return h.surface.Paint(h.engine.Frame(), h.engine.Viewport())
}

// pump forwards screen events until the screen is finalised or done is
// closed. stopped is closed when the goroutine exits.
func (h *TerminalHost) pump(done <-chan struct{}, size int) (events <-chan tcell.Event, stopped <-chan struct{}) {
	ch := make(chan tcell.Event, size)
	exit := make(chan struct{})
	go func() {
		defer close(exit)
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				close(ch)
				return
			}
			select {
			case ch <- ev:
			case <-done:
				return
			}
		}
	}()
	return ch, exit
}

// Run drives the engine until ctx is done or the user quits. The screen is
// finalised on return.
func (h *TerminalHost) Run(ctx context.Context) error {
	defer h.screen.Fini()
	defer h.surface.Close()
	defer h.engine.Dispose()

	h.engine.Start()

	ticker := time.NewTicker(TerminalFrameInterval)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	eventChan, _ := h.pump(done, eventBuffer)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-eventChan:
			if !ok || !h.HandleEvent(ev) {
				return nil
			}

		case now := <-ticker.C:
			if err := h.Frame(now); err != nil {
				logx.Logger().Warn("term: paint", "err", err)
			}
		}
	}
}
