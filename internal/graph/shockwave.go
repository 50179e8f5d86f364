package graph

import "github.com/iburimskiy/backdrop/internal/vec"

// Shockwave is a time-decaying radial displacement centred on Origin.
// Start is in simulation seconds.
type Shockwave struct {
	Start        float64
	Origin       vec.Vector2
	MaxRadius    float64
	MaxAmplitude float64
	Width        float64
	Duration     float64
}

// TimeRatio is the wave's progress at now, clamped to [0, 1].
func (w Shockwave) TimeRatio(now float64) float64 {
	if w.Duration <= 0 {
		return 1
	}
	return vec.Clamp((now-w.Start)/w.Duration, 0, 1)
}

// Radius is the current ring radius.
func (w Shockwave) Radius(now float64) float64 {
	return w.MaxRadius * w.TimeRatio(now)
}

// AmplitudeFactor decays linearly from 1 at Start to 0 at Start+Duration.
func (w Shockwave) AmplitudeFactor(now float64) float64 {
	return 1 - w.TimeRatio(now)
}

// Done reports whether the wave has fully decayed.
func (w Shockwave) Done(now float64) bool { return w.TimeRatio(now) >= 1 }

// Weight is the band-pass weight at distance d from the origin: it rises
// over [r-width, r], peaks at the ring and falls back to 0 at r+width.
func (w Shockwave) Weight(d, now float64) float64 {
	r := w.Radius(now)
	return vec.Smoothstep(r-w.Width, r, d) - vec.Smoothstep(r, r+w.Width, d)
}

// Offset is the displacement applied to a point at p.
func (w Shockwave) Offset(p vec.Vector2, now float64) vec.Vector2 {
	dir := p.Sub(w.Origin)
	weight := w.Weight(dir.Length(), now)
	if weight == 0 {
		return vec.Vector2{}
	}
	return dir.Normalize().Scale(w.MaxAmplitude * weight * w.AmplitudeFactor(now))
}
