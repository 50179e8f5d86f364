package game

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/backdrop/internal/capability"
	"github.com/iburimskiy/backdrop/internal/config"
	"github.com/iburimskiy/backdrop/internal/surface"
	"github.com/iburimskiy/backdrop/internal/tier"
)

const (
	// hiddenTPS keeps input polling alive while unfocused. Focused windows
	// tick once per drawn frame.
	hiddenTPS = 10
	// scrollStep converts wheel notches to scroll offset units.
	scrollStep = 40
)

// EbitenGPUTest succeeds when ebiten is running on a GPU graphics library.
// It is only meaningful once the game loop has started.
func EbitenGPUTest() error {
	var info ebiten.DebugInfo
	ebiten.ReadDebugInfo(&info)
	switch info.GraphicsLibrary {
	case ebiten.GraphicsLibraryAuto, ebiten.GraphicsLibraryUnknown:
		return capability.ErrNoGPU
	}
	return nil
}

// Host runs an Engine inside an ebiten window. It implements ebiten.Game.
type Host struct {
	engine  *Engine
	sched   *FrameScheduler
	signals *Signals
	surface *surface.Ebiten
	overlay bool

	started   bool
	focused   bool
	cursor    Point
	hasCursor bool
	scroll    float64
	dpr       float64

	// input edge detection
	prevKey map[ebiten.Key]bool
}

var _ ebiten.Game = (*Host)(nil)

// NewHost builds a window host. The GPU probe asks ebiten for its live
// graphics library unless opts replace the environment.
func NewHost(cfg *config.Config, overlay bool, opts ...EngineOption) *Host {
	sched := NewFrameScheduler()
	signals := &Signals{}
	env := capability.System{
		GPUTest:        EbitenGPUTest,
		ConnectionHint: capability.ParseConnection(cfg.Tier.Connection),
	}
	opts = append([]EngineOption{WithEnvironment(env)}, opts...)
	return &Host{
		engine:  NewEngine(cfg, sched, signals, opts...),
		sched:   sched,
		signals: signals,
		surface: surface.NewEbiten(true),
		overlay: overlay,
		focused: true,
		dpr:     1,
		prevKey: map[ebiten.Key]bool{},
	}
}

// Engine returns the hosted engine.
func (h *Host) Engine() *Engine { return h.engine }

// Run opens the window and blocks until it is closed.
func (h *Host) Run() error {
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("backdrop")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetTPS(ebiten.SyncWithFPS)
	defer h.engine.Dispose()
	return ebiten.RunGame(h)
}

// hostInput is the input state polled on one ebiten tick.
type hostInput struct {
	focused bool
	cursor  Point
	clicked bool
	wheel   float64
}

func (h *Host) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !h.prevKey[k]
		h.prevKey[k] = pressed
		return jp
	}

	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if justPressed(ebiten.KeyO) {
		h.overlay = !h.overlay
	}

	mouseX, mouseY := ebiten.CursorPosition()
	_, wy := ebiten.Wheel()
	h.step(hostInput{
		focused: ebiten.IsFocused(),
		cursor:  Point{X: float64(mouseX) / h.dpr, Y: float64(mouseY) / h.dpr},
		clicked: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		wheel:   wy,
	})
	return nil
}

// step turns one tick of input into signals. It never advances frames:
// ebiten may run several ticks per drawn frame.
func (h *Host) step(in hostInput) {
	if !h.started {
		h.started = true
		h.engine.Start()
	}

	if in.focused != h.focused {
		h.focused = in.focused
		if in.focused {
			ebiten.SetTPS(ebiten.SyncWithFPS)
		} else {
			ebiten.SetTPS(hiddenTPS)
		}
		h.signals.Visibility.Emit(in.focused)
	}

	switch {
	case !h.hasCursor:
		h.cursor, h.hasCursor = in.cursor, true
	case in.cursor != h.cursor:
		h.cursor = in.cursor
		h.signals.PointerMove.Emit(in.cursor)
	}
	if in.clicked {
		h.signals.PointerClick.Emit(in.cursor)
	}
	if in.wheel != 0 {
		h.scroll = max(h.scroll-in.wheel*scrollStep, 0)
		h.signals.Scroll.Emit(h.scroll)
	}
}

// present fires the frame callbacks due for one drawn frame.
func (h *Host) present(now time.Time) int {
	return h.sched.Fire(now)
}

func (h *Host) Draw(screen *ebiten.Image) {
	h.present(time.Now())

	b, _ := h.engine.Binding()
	h.surface.AntiAlias = b.Kind != tier.RendererGraph || b.Variant == tier.VariantAccelerated
	h.surface.Paint(screen, h.engine.Frame(), h.engine.Viewport())

	if h.overlay {
		ebitenutil.DebugPrintAt(screen, h.status(), 12, 12)
	}
}

func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	if m := ebiten.Monitor(); m != nil {
		h.dpr = m.DeviceScaleFactor()
	}
	h.engine.Resize(outsideWidth, outsideHeight, h.dpr)
	v := h.engine.Viewport()
	return v.BackingWidth, v.BackingHeight
}

func (h *Host) status() string {
	b, _ := h.engine.Binding()
	status := fmt.Sprintf("tier %s (%s/%s)  fps %.0f  window %v",
		h.engine.Tier(), b.Kind, b.Variant, ebiten.ActualFPS(), h.engine.Monitor().Recent(5))
	if h.engine.Hidden() {
		status += "  paused"
	}
	return status + "  [o] overlay  [q] quit"
}
