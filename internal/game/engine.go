package game

import (
	"math/rand"
	"time"

	"github.com/iburimskiy/backdrop/internal/capability"
	"github.com/iburimskiy/backdrop/internal/config"
	"github.com/iburimskiy/backdrop/internal/draw"
	"github.com/iburimskiy/backdrop/internal/graph"
	"github.com/iburimskiy/backdrop/internal/logx"
	"github.com/iburimskiy/backdrop/internal/morph"
	"github.com/iburimskiy/backdrop/internal/tier"
)

// EngineOption customises an Engine.
type EngineOption func(*Engine)

// WithEnvironment replaces the capability environment probed at start.
func WithEnvironment(env capability.Environment) EngineOption {
	return func(e *Engine) { e.env = env }
}

// WithSeed makes every renderer's random layout reproducible.
func WithSeed(seed int64) EngineOption {
	return func(e *Engine) { e.rng = rand.New(rand.NewSource(seed)) }
}

// WithViewport sets the surface size used until the host first resizes.
func WithViewport(width, height int, dpr float64) EngineOption {
	return func(e *Engine) { e.resize = NewResizeAdapter(width, height, dpr) }
}

// Engine owns the tier state and the active renderer, and swaps renderers
// when the measured frame rate forces a lower tier.
type Engine struct {
	cfg     *config.Config
	sched   Scheduler
	signals *Signals
	env     capability.Environment
	palette draw.Palette
	rng     *rand.Rand

	resize  *ResizeAdapter
	monitor *tier.Monitor
	state   *tier.State

	renderer Renderer
	binding  tier.Binding
	loop     *Loop
	list     draw.List
	unsubs   []func()
	changes  Signal[tier.Binding]

	started  bool
	disposed bool
	hidden   bool
}

// NewEngine returns a stopped engine. cfg must already be validated; a nil
// signals gets a private set the host can reach through Signals.
func NewEngine(cfg *config.Config, sched Scheduler, signals *Signals, opts ...EngineOption) *Engine {
	if signals == nil {
		signals = &Signals{}
	}
	theme, err := draw.ParseTheme(cfg.Theme)
	if err != nil {
		logx.Logger().Warn("engine: theme", "err", err)
		theme = draw.ThemeDark
	}
	e := &Engine{
		cfg:     cfg,
		sched:   sched,
		signals: signals,
		palette: draw.PaletteFor(theme),
		monitor: tier.NewMonitor(config.FPSHistorySize),
	}
	for _, o := range opts {
		o(e)
	}
	if e.env == nil {
		e.env = capability.System{ConnectionHint: capability.ParseConnection(cfg.Tier.Connection)}
	}
	if e.resize == nil {
		e.resize = NewResizeAdapter(config.WindowWidth, config.WindowHeight, 1)
	}
	return e
}

// Start probes the device on first use and activates the renderer for the
// current tier. It is a no-op while running or after Dispose.
func (e *Engine) Start() {
	if e.disposed || e.started {
		return
	}
	if e.state == nil {
		score := capability.Probe(e.env)
		e.state = tier.NewState(score, e.ceiling())
		logx.Logger().Debug("engine: probed",
			"gpu", score.HasGPUContext,
			"memory_gb", score.MemoryGB,
			"cores", score.Cores,
			"mobile", score.Mobile,
			"tier", e.state.Current.String())
	}
	e.started = true
	e.monitor.Reset()
	e.activate()
}

// Stop tears the active renderer down. The tier reached so far is kept, so
// a later Start never returns to a higher tier.
func (e *Engine) Stop() {
	if !e.started {
		return
	}
	e.deactivate()
	e.started = false
}

// Resize forwards a host resize to the viewport and the active renderer.
func (e *Engine) Resize(width, height int, dpr float64) bool {
	if e.disposed {
		return false
	}
	_, ok := e.resize.Resize(width, height, dpr)
	return ok
}

// SetVisible pauses frames while the host is hidden. The frame-rate window
// restarts on becoming visible so the hidden period is not measured.
func (e *Engine) SetVisible(visible bool) {
	if e.hidden == !visible {
		return
	}
	e.hidden = !visible
	if e.loop == nil {
		return
	}
	if visible {
		e.monitor.Reset()
		e.loop.Resume()
		return
	}
	e.loop.Pause()
}

// Dispose stops the engine for good.
func (e *Engine) Dispose() {
	if e.disposed {
		return
	}
	e.Stop()
	e.disposed = true
}

// OnBindingChange subscribes fn to renderer activations.
func (e *Engine) OnBindingChange(fn func(tier.Binding)) (cancel func()) {
	return e.changes.Subscribe(fn)
}

func (e *Engine) ceiling() tier.Tier {
	if e.cfg.Tier.Force == "" {
		return tier.High
	}
	t, err := capability.ParseTier(e.cfg.Tier.Force)
	if err != nil {
		logx.Logger().Warn("engine: tier.force", "err", err)
		return tier.High
	}
	return t
}

func (e *Engine) activate() {
	b := e.state.Binding()
	r := e.build(b)
	loop := NewLoop(e.sched, r, &e.list, LoopOptions{
		MaxFrameDelta: time.Duration(e.cfg.MaxFrameDelta * float64(time.Second)),
		OnTick:        e.tick,
	})
	e.renderer, e.binding, e.loop = r, b, loop

	e.unsubs = append(e.unsubs,
		e.resize.OnChange(func(v draw.Viewport) {
			r.Resize(v)
			loop.Invalidate()
		}),
		e.signals.Visibility.Subscribe(e.SetVisible),
	)
	if ph, ok := r.(PointerHandler); ok {
		e.unsubs = append(e.unsubs,
			e.signals.PointerMove.Subscribe(func(p Point) {
				ph.PointerMove(p.logical(e.resize))
			}),
			e.signals.PointerClick.Subscribe(func(Point) {
				ph.PointerClick()
			}),
		)
	}
	if sc, ok := r.(Scroller); ok {
		e.unsubs = append(e.unsubs, e.signals.Scroll.Subscribe(sc.Scroll))
	}

	if e.hidden {
		loop.Pause()
	}
	loop.Start()
	logx.Logger().Info("engine: renderer", "kind", b.Kind.String(), "variant", b.Variant.String())
	e.changes.Emit(b)
}

// deactivate cancels the pending frame and every subscription before
// disposing the renderer.
func (e *Engine) deactivate() {
	if e.loop == nil {
		return
	}
	e.loop.Stop()
	for _, cancel := range e.unsubs {
		cancel()
	}
	e.unsubs = nil
	e.renderer.Dispose()
	e.renderer, e.loop = nil, nil
}

func (e *Engine) build(b tier.Binding) Renderer {
	xRange := e.resize.Viewport().XRange
	var speed, opacity float64 = 1, 1
	if e.cfg.ReducedMotion {
		speed, opacity = e.cfg.MotionSpeed, e.cfg.MotionOpacity
	}

	switch b.Kind {
	case tier.RendererGraph:
		opts := []graph.Option{graph.WithPalette(e.palette), graph.WithMotion(speed, opacity)}
		if e.rng != nil {
			opts = append(opts, graph.WithRand(e.rng))
		}
		return graph.New(graph.FromConfig(e.cfg, e.state.Score().Constrained()), xRange, opts...)
	case tier.RendererMorph:
		opts := []morph.Option{morph.WithPalette(e.palette), morph.WithMotion(speed, opacity)}
		if e.rng != nil {
			opts = append(opts, morph.WithRand(e.rng))
		}
		return morph.New(morph.FromConfig(e.cfg), xRange, opts...)
	}
	return NewStatic(e.palette)
}

func (e *Engine) tick(now time.Time) {
	fps, closed := e.monitor.Tick(now)
	if !closed {
		return
	}
	logx.Logger().Debug("engine: frame rate", "fps", fps, "tier", e.state.Current.String())
	if e.state.Reassess(now, fps) {
		e.deactivate()
		e.activate()
	}
}

// Signals returns the inputs the engine listens on.
func (e *Engine) Signals() *Signals { return e.signals }

// Frame returns the most recently drawn primitive list.
func (e *Engine) Frame() *draw.List { return &e.list }

// Viewport returns the current viewport.
func (e *Engine) Viewport() draw.Viewport { return e.resize.Viewport() }

// Binding returns the active renderer choice; ok is false while stopped.
func (e *Engine) Binding() (b tier.Binding, ok bool) { return e.binding, e.renderer != nil }

// Tier returns the current tier. Before the first Start it is High.
func (e *Engine) Tier() tier.Tier {
	if e.state == nil {
		return tier.High
	}
	return e.state.Current
}

// Score returns the probe result; ok is false before the first Start.
func (e *Engine) Score() (capability.Score, bool) {
	if e.state == nil {
		return capability.Score{}, false
	}
	return e.state.Score(), true
}

// Renderer returns the active renderer, or nil while stopped.
func (e *Engine) Renderer() Renderer { return e.renderer }

// Monitor returns the frame-rate monitor.
func (e *Engine) Monitor() *tier.Monitor { return e.monitor }

// Frames returns how many frames the active renderer has drawn.
func (e *Engine) Frames() uint64 {
	if e.loop == nil {
		return 0
	}
	return e.loop.Frames()
}

// Running reports whether the engine is started.
func (e *Engine) Running() bool { return e.started }

// Hidden reports whether frames are paused for visibility.
func (e *Engine) Hidden() bool { return e.hidden }
