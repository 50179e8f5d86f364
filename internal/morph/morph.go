// Package morph implements the medium-tier renderer: slowly morphing blobs
// built from closed quadratic outlines, plus a small linked particle field.
package morph

import (
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/iburimskiy/backdrop/internal/config"
	"github.com/iburimskiy/backdrop/internal/draw"
	"github.com/iburimskiy/backdrop/internal/vec"
)

// Blob shape parameters.
const (
	wobble       = 0.18 // time-driven radius perturbation
	scrollWobble = 0.06 // scroll-driven radius perturbation
	scrollRate   = 0.01 // radians per scroll unit
	spin         = 0.05 // outline rotation, radians per second
	sway         = 3.0  // centre drift amplitude, logical units
	blendDepth   = 0.2  // half the peak blend toward the next blob colour

	particleSpeed = 2.5
	linkOpacity   = 0.35
	linkWidth     = 0.1
)

// Config is the resolved configuration of one Renderer.
type Config struct {
	BlobCount     int
	Points        int
	ParticleCount int
	LinkDistance  float64
}

// FromConfig resolves the morph section of cfg.
func FromConfig(cfg *config.Config) Config {
	m := cfg.Morph
	return Config{
		BlobCount:     m.BlobCount,
		Points:        m.Points,
		ParticleCount: m.ParticleCount,
		LinkDistance:  m.LinkDistance,
	}
}

// Option customises a Renderer.
type Option func(*Renderer)

// WithRand sets the random source.
func WithRand(r *rand.Rand) Option { return func(m *Renderer) { m.rng = r } }

// WithPalette sets the colours.
func WithPalette(p draw.Palette) Option { return func(m *Renderer) { m.palette = p } }

// WithMotion scales animation speed and opacity.
func WithMotion(speed, opacity float64) Option {
	return func(m *Renderer) {
		m.speedScale = speed
		m.opacityScale = opacity
	}
}

type blob struct {
	anchor vec.Vector2 // fraction of the viewport
	radius float64
	freq   float64
	phases []float64
	color  int
}

type particle struct {
	pos  vec.Vector2
	vel  vec.Vector2
	size float64
}

// Renderer draws the morphing blobs and the particle field.
type Renderer struct {
	cfg     Config
	rng     *rand.Rand
	palette draw.Palette

	speedScale   float64
	opacityScale float64

	xRange    float64
	t         float64
	scroll    float64
	blobs     []blob
	particles []particle
	disposed  bool
}

// New builds a renderer for a viewport of the given logical width.
func New(cfg Config, xRange float64, opts ...Option) *Renderer {
	m := &Renderer{
		cfg:          cfg,
		palette:      draw.PaletteFor(draw.ThemeDark),
		speedScale:   1,
		opacityScale: 1,
		xRange:       xRange,
	}
	for _, o := range opts {
		o(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	m.blobs = make([]blob, cfg.BlobCount)
	for i := range m.blobs {
		b := blob{
			anchor: vec.V(0.2+0.6*m.rng.Float64(), 0.2+0.6*m.rng.Float64()),
			radius: 18 + 14*m.rng.Float64(),
			freq:   0.3 + 0.4*m.rng.Float64(),
			phases: make([]float64, cfg.Points),
			color:  i,
		}
		for k := range b.phases {
			b.phases[k] = 2 * math.Pi * m.rng.Float64()
		}
		m.blobs[i] = b
	}

	m.particles = make([]particle, cfg.ParticleCount)
	for i := range m.particles {
		angle := 2 * math.Pi * m.rng.Float64()
		speed := particleSpeed * (0.3 + 0.7*m.rng.Float64())
		m.particles[i] = particle{
			pos:  vec.V(m.rng.Float64()*xRange, m.rng.Float64()*draw.LogicalHeight),
			vel:  vec.V(math.Cos(angle)*speed, math.Sin(angle)*speed),
			size: 0.25 + 0.35*m.rng.Float64(),
		}
	}
	return m
}

// Update advances time and moves the particles, wrapping at the edges.
func (m *Renderer) Update(dt float64) {
	if m.disposed {
		return
	}
	dt *= m.speedScale
	m.t += dt
	for i := range m.particles {
		p := &m.particles[i]
		p.pos = p.pos.Add(p.vel.Scale(dt))
		p.pos.X = wrap(p.pos.X, m.xRange)
		p.pos.Y = wrap(p.pos.Y, draw.LogicalHeight)
	}
}

func wrap(v, span float64) float64 {
	if span <= 0 {
		return v
	}
	v = math.Mod(v, span)
	if v < 0 {
		v += span
	}
	return v
}

// Scroll sets the page scroll offset that perturbs the blob outlines.
func (m *Renderer) Scroll(offset float64) { m.scroll = offset }

// Resize adopts the new logical width. Particles beyond it wrap back in on
// their next move.
func (m *Renderer) Resize(v draw.Viewport) {
	if v.Valid() {
		m.xRange = v.XRange
	}
}

// Dispose releases the renderer's state.
func (m *Renderer) Dispose() {
	m.disposed = true
	m.blobs = nil
	m.particles = nil
}

// ControlPoints returns blob i's outline control points at the current
// time and scroll offset.
func (m *Renderer) ControlPoints(i int) []vec.Vector2 {
	b := m.blobs[i]
	n := len(b.phases)
	centre := vec.V(
		b.anchor.X*m.xRange+sway*math.Sin(m.t*0.1+b.phases[0]),
		b.anchor.Y*draw.LogicalHeight+sway*math.Cos(m.t*0.13+b.phases[n-1]),
	)
	pts := make([]vec.Vector2, n)
	for k := range pts {
		theta := 2*math.Pi*float64(k)/float64(n) + m.t*spin
		r := b.radius * (1 +
			wobble*math.Sin(m.t*b.freq+b.phases[k]) +
			scrollWobble*math.Sin(m.scroll*scrollRate+float64(k)))
		pts[k] = centre.Add(vec.V(math.Cos(theta), math.Sin(theta)).Scale(r))
	}
	return pts
}

// Outline returns blob i as a closed path of quadratic segments passing
// through the midpoints between consecutive control points.
func (m *Renderer) Outline(i int) *draw.Path {
	pts := m.ControlPoints(i)
	n := len(pts)
	path := &draw.Path{Segments: make([]draw.Segment, 0, n+2)}
	path.MoveTo(vec.Mid(pts[n-1], pts[0]))
	for k := 0; k < n; k++ {
		path.QuadTo(pts[k], vec.Mid(pts[k], pts[(k+1)%n]))
	}
	path.Close()

	path.Fill = draw.Fade(m.blobColor(i), m.opacityScale)
	return path
}

// blobColor drifts the hue of blob i and blends it toward the next palette
// colour.
func (m *Renderer) blobColor(i int) color.NRGBA {
	n := len(m.palette.Blobs)
	k := m.blobs[i].color
	c := draw.Shift(m.palette.Blobs[k%n], 20*math.Sin(m.t*0.05+float64(i)))
	return draw.Mix(c, m.palette.Blobs[(k+1)%n], blendDepth*(1+math.Sin(m.t*0.03+float64(i))))
}

// Links returns the particle pairs closer than the link distance, in index
// order.
func (m *Renderer) Links() [][2]int {
	var links [][2]int
	maxSq := m.cfg.LinkDistance * m.cfg.LinkDistance
	for i := range m.particles {
		for j := i + 1; j < len(m.particles); j++ {
			if vec.LengthSq(m.particles[i].pos.Sub(m.particles[j].pos)) <= maxSq {
				links = append(links, [2]int{i, j})
			}
		}
	}
	return links
}

// Draw appends the background, blobs, links and particles to l.
func (m *Renderer) Draw(l *draw.List) {
	if m.disposed {
		return
	}
	l.Add(draw.Gradient{Top: m.palette.BackgroundTop, Bottom: m.palette.BackgroundBottom})
	for i := range m.blobs {
		l.Add(m.Outline(i))
	}
	for _, ln := range m.Links() {
		a, b := m.particles[ln[0]].pos, m.particles[ln[1]].pos
		f := 1 - a.DistanceTo(b)/m.cfg.LinkDistance
		l.Add(draw.Line{
			A:     a,
			B:     b,
			Width: linkWidth,
			Color: draw.Fade(m.palette.Link, linkOpacity*f*m.opacityScale),
		})
	}
	for _, p := range m.particles {
		l.Add(draw.Circle{Center: p.pos, Radius: p.size, Color: draw.Fade(m.palette.Particle, m.opacityScale)})
	}
}

// Elapsed returns renderer time in seconds.
func (m *Renderer) Elapsed() float64 { return m.t }
