package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/iburimskiy/backdrop/internal/capability"
	"github.com/iburimskiy/backdrop/internal/config"
	"github.com/iburimskiy/backdrop/internal/graph"
	"github.com/iburimskiy/backdrop/internal/morph"
	"github.com/iburimskiy/backdrop/internal/tier"
)

type fakeEnv struct {
	gpu   bool
	mem   float64
	cores int
}

func (f fakeEnv) GPU() error {
	if f.gpu {
		return nil
	}
	return capability.ErrNoGPU
}
func (f fakeEnv) MemoryGB() (float64, bool)                    { return f.mem, f.mem > 0 }
func (f fakeEnv) Cores() (int, bool)                           { return f.cores, f.cores > 0 }
func (fakeEnv) Mobile() bool                                   { return false }
func (fakeEnv) Connection() (capability.ConnectionClass, bool) { return "", false }

var strongDevice = fakeEnv{gpu: true, mem: 8, cores: 8}

type EngineSuite struct {
	suite.Suite

	cfg     *config.Config
	sched   *FrameScheduler
	signals *Signals
	engine  *Engine
	now     time.Time
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.cfg = config.Default()
	s.sched = NewFrameScheduler()
	s.signals = &Signals{}
	s.now = t0
	s.engine = s.newEngine(strongDevice)
}

func (s *EngineSuite) newEngine(env capability.Environment) *Engine {
	return NewEngine(s.cfg, s.sched, s.signals,
		WithEnvironment(env),
		WithSeed(7),
		WithViewport(1024, 512, 1),
	)
}

// run fires n frames spaced by interval, starting at the suite clock.
func (s *EngineSuite) run(n int, interval time.Duration) {
	for i := 0; i < n; i++ {
		s.sched.Fire(s.now)
		s.now = s.now.Add(interval)
	}
}

func (s *EngineSuite) kind() tier.RendererKind {
	b, ok := s.engine.Binding()
	s.Require().True(ok)
	return b.Kind
}

func (s *EngineSuite) TestStartActivatesGraphOnce() {
	s.engine.Start()
	s.engine.Start()

	s.Equal(tier.RendererGraph, s.kind())
	b, _ := s.engine.Binding()
	s.Equal(tier.VariantAccelerated, b.Variant)
	s.Equal(1, s.sched.Pending())
	s.Equal(1, s.signals.PointerMove.Len())
	s.Equal(1, s.signals.PointerClick.Len())
	s.Equal(1, s.signals.Visibility.Len())
	s.Zero(s.signals.Scroll.Len())

	score, ok := s.engine.Score()
	s.True(ok)
	s.True(score.HasGPUContext)

	s.run(3, 16*time.Millisecond)
	s.EqualValues(3, s.engine.Frames())
	circles, _, _, gradients := s.engine.Frame().Count()
	s.Equal(1, gradients)
	s.Equal(s.cfg.Graph.ParticleCount-1, circles, "interactive node is inactive")
}

func (s *EngineSuite) TestNoGPUStrongCPUUsesDenseVariant() {
	s.engine = s.newEngine(fakeEnv{mem: 8, cores: 8})
	s.engine.Start()
	b, ok := s.engine.Binding()
	s.Require().True(ok)
	s.Equal(tier.RendererGraph, b.Kind)
	s.Equal(tier.VariantDense2D, b.Variant)
}

func (s *EngineSuite) TestLowFrameRateDropsToStatic() {
	var seen []tier.Binding
	s.engine.OnBindingChange(func(b tier.Binding) { seen = append(seen, b) })
	s.engine.Start()

	s.run(17, time.Second/15)

	s.Equal(tier.Low, s.engine.Tier())
	s.Equal(tier.RendererStatic, s.kind())
	s.Zero(s.signals.PointerMove.Len(), "graph subscriptions released")
	s.Zero(s.signals.PointerClick.Len())
	s.Equal(1, s.signals.Visibility.Len())
	s.Require().Len(seen, 2)
	s.Equal(tier.RendererStatic, seen[1].Kind)

	s.Equal(1, s.sched.Pending())
	s.run(1, time.Second/15)
	s.Zero(s.sched.Pending(), "static renderer draws once")
	_, _, _, gradients := s.engine.Frame().Count()
	s.Equal(1, gradients)
	s.Equal(1, s.engine.Frame().Len())
}

func (s *EngineSuite) TestMediumFrameRateDropsToMorph() {
	s.engine.Start()
	s.run(32, time.Second/30)

	s.Equal(tier.Medium, s.engine.Tier())
	s.Equal(tier.RendererMorph, s.kind())
	s.IsType(&morph.Renderer{}, s.engine.Renderer())
	s.Equal(1, s.signals.Scroll.Len())
	s.Zero(s.signals.PointerMove.Len())

	s.signals.Scroll.Emit(120)
	s.run(2, time.Second/60)
	_, _, paths, _ := s.engine.Frame().Count()
	s.Equal(s.cfg.Morph.BlobCount, paths)
}

func (s *EngineSuite) TestTierNeverRecovers() {
	s.engine.Start()
	s.run(32, time.Second/30)
	s.Require().Equal(tier.Medium, s.engine.Tier())

	s.run(240, time.Second/120)
	s.Equal(tier.Medium, s.engine.Tier())

	s.engine.Stop()
	s.engine.Start()
	s.Equal(tier.Medium, s.engine.Tier())
}

func (s *EngineSuite) TestStopReleasesEverything() {
	s.engine.Start()
	s.run(2, 16*time.Millisecond)

	s.engine.Stop()
	s.engine.Stop()
	s.Zero(s.sched.Pending())
	s.Zero(s.signals.Subscribers())
	s.Nil(s.engine.Renderer())
	s.False(s.engine.Running())

	s.engine.Start()
	s.Equal(1, s.sched.Pending())
	s.Equal(3, s.signals.Subscribers())
}

func (s *EngineSuite) TestVisibilityPausesFrames() {
	s.engine.Start()
	s.run(2, 16*time.Millisecond)

	s.signals.Visibility.Emit(false)
	s.True(s.engine.Hidden())
	s.Zero(s.sched.Pending())
	frames := s.engine.Frames()
	s.run(5, 16*time.Millisecond)
	s.Equal(frames, s.engine.Frames())

	// A long hidden gap must not count as a slow window.
	s.now = s.now.Add(10 * time.Second)
	s.signals.Visibility.Emit(true)
	s.Equal(1, s.sched.Pending())
	s.run(70, time.Second/60)
	s.Equal(tier.High, s.engine.Tier())
}

func (s *EngineSuite) TestPointerDrivesInteractiveNode() {
	s.engine.Start()
	s.signals.PointerMove.Emit(Point{X: 512, Y: 256})

	sim, ok := s.engine.Renderer().(*graph.Simulation)
	s.Require().True(ok)
	n := sim.Interactive()
	s.True(n.Active)
	s.InDelta(100, n.Actual.X, 1e-9)
	s.InDelta(50, n.Actual.Y, 1e-9)

	s.signals.PointerClick.Emit(Point{X: 256, Y: 0})
	w, live := sim.Wave()
	s.True(live)
	s.InDelta(100, w.Origin.X, 1e-9, "the wave starts at the node, not the click point")
	s.InDelta(50, w.Origin.Y, 1e-9)
}

func (s *EngineSuite) TestClickBeforeMoveIsIgnored() {
	s.engine.Start()
	s.signals.PointerClick.Emit(Point{X: 512, Y: 256})

	sim, ok := s.engine.Renderer().(*graph.Simulation)
	s.Require().True(ok)
	_, live := sim.Wave()
	s.False(live)
	s.False(sim.Interactive().Active)
}

func (s *EngineSuite) TestResizeReachesRenderer() {
	s.engine.Start()
	s.True(s.engine.Resize(800, 200, 2))
	s.False(s.engine.Resize(0, 200, 2))

	sim := s.engine.Renderer().(*graph.Simulation)
	s.InDelta(400, sim.XRange(), 1e-9)
	s.Equal(1600, s.engine.Viewport().BackingWidth)
}

func (s *EngineSuite) TestDispose() {
	s.engine.Start()
	s.engine.Dispose()
	s.engine.Dispose()
	s.engine.Start()

	s.Nil(s.engine.Renderer())
	s.Zero(s.sched.Pending())
	s.Zero(s.signals.Subscribers())
	s.False(s.engine.Resize(640, 480, 1))
}

func (s *EngineSuite) TestForcedTierCapsStart() {
	s.cfg.Tier.Force = "low"
	s.engine = s.newEngine(strongDevice)
	s.engine.Start()
	s.Equal(tier.Low, s.engine.Tier())
	s.Equal(tier.RendererStatic, s.kind())
}

func (s *EngineSuite) TestConstrainedDeviceUsesSmallBudget() {
	s.engine = s.newEngine(fakeEnv{gpu: true, mem: 2, cores: 8})
	s.engine.Start()
	sim, ok := s.engine.Renderer().(*graph.Simulation)
	s.Require().True(ok)
	s.Len(sim.Nodes(), s.cfg.Graph.ConstrainedCount)
}
