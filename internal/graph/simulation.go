// Package graph implements the node-and-edge network simulation: drifting
// points that wrap around, form capped distance-based connections, and are
// pushed around by a click-triggered shockwave.
//
// A Simulation is a plain owned value. It has no package-level state and
// does no drawing of its own; Draw appends primitives to a draw.List.
package graph

import (
	"math"
	"math/rand"
	"time"

	"github.com/iburimskiy/backdrop/internal/config"
	"github.com/iburimskiy/backdrop/internal/draw"
	"github.com/iburimskiy/backdrop/internal/vec"
)

// Drift and scatter geometry, in logical units.
const (
	// LowerBound is where a drifting node leaves the scene.
	LowerBound = -5.0
	// RespawnTop and RespawnSpan give the wrapped y range [100, 105].
	RespawnTop  = draw.LogicalHeight
	RespawnSpan = 5.0

	uniformShare  = 0.6
	bandInset     = 6.0
	bandOverflow  = 4.0
	rightOverflow = 12.0

	edgeFalloff = 1.8
	lineWidth   = 0.12
	radiusScale = 0.4
)

// Config is the resolved configuration of one Simulation.
type Config struct {
	ParticleCount   int
	MaxConnections  int
	MaxDistance     float64
	RespawnSpeed    config.Range
	RespawnSize     config.Range
	InteractiveSize float64
	EdgeOpacity     float64
	Shockwave       config.ShockwaveConfig
}

// FromConfig resolves the graph section of cfg. Constrained devices get the
// reduced node budget.
func FromConfig(cfg *config.Config, constrained bool) Config {
	g := cfg.Graph
	n := g.ParticleCount
	if constrained {
		n = g.ConstrainedCount
	}
	return Config{
		ParticleCount:   n,
		MaxConnections:  g.MaxConnections,
		MaxDistance:     g.MaxDistance,
		RespawnSpeed:    g.RespawnSpeed,
		RespawnSize:     g.RespawnSize,
		InteractiveSize: g.InteractiveSize,
		EdgeOpacity:     g.EdgeOpacity,
		Shockwave:       g.Shockwave,
	}
}

// Option customises a Simulation.
type Option func(*Simulation)

// WithRand sets the random source used for scatter and respawn.
func WithRand(r *rand.Rand) Option { return func(s *Simulation) { s.rng = r } }

// WithPalette sets the colours.
func WithPalette(p draw.Palette) Option { return func(s *Simulation) { s.palette = p } }

// WithMotion scales animation speed and opacity (reduced motion).
func WithMotion(speed, opacity float64) Option {
	return func(s *Simulation) {
		s.speedScale = speed
		s.opacityScale = opacity
	}
}

// Simulation owns a fixed set of nodes and the edges between them.
type Simulation struct {
	cfg     Config
	rng     *rand.Rand
	palette draw.Palette

	speedScale   float64
	opacityScale float64

	xRange      float64
	elapsed     float64
	nodes       []Node
	edges       []Edge
	interactive int
	wave        *Shockwave
	disposed    bool
}

// New allocates cfg.ParticleCount nodes scattered over a viewport of the
// given logical width. The last node is the pointer-bound interactive one.
func New(cfg Config, xRange float64, opts ...Option) *Simulation {
	s := &Simulation{
		cfg:          cfg,
		palette:      draw.PaletteFor(draw.ThemeDark),
		speedScale:   1,
		opacityScale: 1,
		xRange:       xRange,
	}
	for _, o := range opts {
		o(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	n := max(cfg.ParticleCount, 1)
	s.nodes = make([]Node, n)
	drifting := n - 1
	uniform := int(math.Round(float64(drifting) * uniformShare))
	for i := 0; i < drifting; i++ {
		var p vec.Vector2
		if i < uniform {
			p = vec.V(s.uniform(0, xRange), s.uniform(0, draw.LogicalHeight))
		} else {
			p = s.bandPoint(i - uniform)
		}
		s.nodes[i] = Node{
			Actual:    p,
			Displayed: p,
			Speed:     s.uniform(cfg.RespawnSpeed.Min(), cfg.RespawnSpeed.Max()),
			Size:      s.uniform(cfg.RespawnSize.Min(), cfg.RespawnSize.Max()),
			Active:    true,
		}
	}

	s.interactive = n - 1
	centre := vec.V(xRange/2, draw.LogicalHeight/2)
	s.nodes[s.interactive] = Node{
		Actual:      centre,
		Displayed:   centre,
		Size:        cfg.InteractiveSize,
		Interactive: true,
	}
	s.edges = make([]Edge, 0, n*max(cfg.MaxConnections, 1)/2)
	return s
}

// bandPoint scatters into one of four bands hugging the edges, cycling
// top, right, bottom, left. The right band reaches furthest past the edge.
func (s *Simulation) bandPoint(k int) vec.Vector2 {
	h := draw.LogicalHeight
	switch k % 4 {
	case 0:
		return vec.V(s.uniform(0, s.xRange), s.uniform(h-bandInset, h+bandOverflow))
	case 1:
		return vec.V(s.uniform(s.xRange-bandInset, s.xRange+rightOverflow), s.uniform(0, h))
	case 2:
		return vec.V(s.uniform(0, s.xRange), s.uniform(-bandOverflow, bandInset))
	default:
		return vec.V(s.uniform(-bandOverflow, bandInset), s.uniform(0, h))
	}
}

func (s *Simulation) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// Update advances the simulation by dt seconds.
func (s *Simulation) Update(dt float64) {
	if s.disposed {
		return
	}
	dt *= s.speedScale
	s.elapsed += dt

	s.drift(dt)
	s.displace()
	s.connect()
}

func (s *Simulation) drift(dt float64) {
	for i := range s.nodes {
		n := &s.nodes[i]
		if n.Interactive {
			continue
		}
		n.Actual.Y -= n.Speed * dt
		if n.Actual.Y < LowerBound {
			s.respawn(n)
		}
	}
}

func (s *Simulation) respawn(n *Node) {
	n.Actual = vec.V(s.uniform(0, s.xRange), RespawnTop+s.rng.Float64()*RespawnSpan)
	n.Speed = s.uniform(s.cfg.RespawnSpeed.Min(), s.cfg.RespawnSpeed.Max())
	n.Size = s.uniform(s.cfg.RespawnSize.Min(), s.cfg.RespawnSize.Max())
}

func (s *Simulation) displace() {
	if s.wave != nil && s.wave.Done(s.elapsed) {
		s.wave = nil
	}
	if s.wave == nil {
		for i := range s.nodes {
			s.nodes[i].Displayed = s.nodes[i].Actual
		}
		return
	}
	w := *s.wave
	for i := range s.nodes {
		n := &s.nodes[i]
		n.Displayed = n.Actual.Add(w.Offset(n.Actual, s.elapsed))
	}
}

// connect rebuilds the edge set. Pairs are visited in index order, so
// lower-index nodes claim connection slots first when crowded.
func (s *Simulation) connect() {
	for i := range s.nodes {
		s.nodes[i].Connections = 0
	}
	s.edges = s.edges[:0]

	maxConn := s.cfg.MaxConnections
	maxDist := s.cfg.MaxDistance
	maxDistSq := maxDist * maxDist
	for i := 0; i < len(s.nodes); i++ {
		a := &s.nodes[i]
		if !a.Active {
			continue
		}
		for j := i + 1; j < len(s.nodes); j++ {
			if a.Connections >= maxConn {
				break
			}
			b := &s.nodes[j]
			if !b.Active || b.Connections >= maxConn {
				continue
			}
			if vec.LengthSq(a.Displayed.Sub(b.Displayed)) > maxDistSq {
				continue
			}
			d := a.Displayed.DistanceTo(b.Displayed)
			a.Connections++
			b.Connections++
			s.edges = append(s.edges, Edge{
				I:        i,
				J:        j,
				Distance: d,
				Opacity:  s.cfg.EdgeOpacity * (1 - math.Pow(d/maxDist, edgeFalloff)),
			})
		}
	}
}

// Draw appends the background, the edges and the active nodes to l.
func (s *Simulation) Draw(l *draw.List) {
	if s.disposed {
		return
	}
	l.Add(draw.Gradient{Top: s.palette.BackgroundTop, Bottom: s.palette.BackgroundBottom})
	for _, e := range s.edges {
		l.Add(draw.Line{
			A:     s.nodes[e.I].Displayed,
			B:     s.nodes[e.J].Displayed,
			Width: lineWidth,
			Color: draw.Fade(s.palette.Edge, e.Opacity*s.opacityScale),
		})
	}
	for _, n := range s.nodes {
		if !n.Active {
			continue
		}
		c := s.palette.Node
		if n.Interactive {
			c = s.palette.Interactive
		}
		l.Add(draw.Circle{
			Center: n.Displayed,
			Radius: n.Size * radiusScale,
			Color:  draw.Fade(c, s.opacityScale),
		})
	}
}

// PointerMove binds the interactive node to p and activates it. It never
// deactivates again.
func (s *Simulation) PointerMove(p vec.Vector2) {
	if s.disposed {
		return
	}
	n := &s.nodes[s.interactive]
	n.Actual = p
	n.Displayed = p
	n.Active = true
}

// PointerClick starts a shockwave at the interactive node, replacing any
// wave in flight. It does nothing until the pointer has moved once.
func (s *Simulation) PointerClick() bool {
	if s.disposed || !s.nodes[s.interactive].Active {
		return false
	}
	sw := s.cfg.Shockwave
	s.wave = &Shockwave{
		Start:        s.elapsed,
		Origin:       s.nodes[s.interactive].Actual,
		MaxRadius:    sw.MaxRadius,
		MaxAmplitude: sw.MaxAmplitude,
		Width:        sw.WaveWidth,
		Duration:     sw.Duration,
	}
	return true
}

// Resize adopts the new logical width. Existing nodes are not reclamped;
// out-of-range nodes drift back in through wraparound.
func (s *Simulation) Resize(v draw.Viewport) {
	if v.Valid() {
		s.xRange = v.XRange
	}
}

// Dispose releases the nodes. Further calls are no-ops.
func (s *Simulation) Dispose() {
	s.disposed = true
	s.nodes = nil
	s.edges = nil
	s.wave = nil
}

// Nodes returns the node slice. Callers must not retain it across updates.
func (s *Simulation) Nodes() []Node { return s.nodes }

// Edges returns the edges recorded by the last update.
func (s *Simulation) Edges() []Edge { return s.edges }

// Wave returns the live shockwave, if any.
func (s *Simulation) Wave() (Shockwave, bool) {
	if s.wave == nil {
		return Shockwave{}, false
	}
	return *s.wave, true
}

// AmplitudeFactor returns the live wave's decay factor, or 0 when no wave
// is running.
func (s *Simulation) AmplitudeFactor() float64 {
	if s.wave == nil {
		return 0
	}
	return s.wave.AmplitudeFactor(s.elapsed)
}

// Elapsed returns simulation time in seconds.
func (s *Simulation) Elapsed() float64 { return s.elapsed }

// XRange returns the current logical width.
func (s *Simulation) XRange() float64 { return s.xRange }

// Interactive returns the pointer-bound node.
func (s *Simulation) Interactive() Node {
	if s.disposed {
		return Node{}
	}
	return s.nodes[s.interactive]
}

// Stats summarises the last update.
func (s *Simulation) Stats() Stats {
	st := Stats{Nodes: len(s.nodes), Edges: len(s.edges), WaveLive: s.wave != nil}
	for _, n := range s.nodes {
		if n.Active {
			st.Active++
		}
		st.MaxConnections = max(st.MaxConnections, n.Connections)
	}
	return st
}
