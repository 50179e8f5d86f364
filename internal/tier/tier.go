// Package tier turns the capability score and the live frame rate into the
// active rendering tier. Frame-rate driven changes only ever go down.
package tier

import (
	"time"

	"github.com/iburimskiy/backdrop/internal/capability"
)

// Tier is re-exported so callers need not import capability for it.
type Tier = capability.Tier

const (
	Low    = capability.TierLow
	Medium = capability.TierMedium
	High   = capability.TierHigh
)

// Frame-rate thresholds.
const (
	LowFPS    = 20 // below this any tier drops to Low
	MediumFPS = 40 // below this High drops to Medium
)

// Window is the sampling window of the frame-rate monitor.
const Window = time.Second

// Select combines the capability score, the latest measured frame rate and
// the previous tier. It never returns a tier above previous. fps <= 0 means
// no measurement yet.
func Select(score capability.Score, fps int, previous Tier) Tier {
	t := score.Tier()
	if previous < t {
		t = previous
	}
	if fps <= 0 {
		return t
	}
	if fps < LowFPS {
		return Low
	}
	if fps < MediumFPS && t == High {
		return Medium
	}
	return t
}

// RendererKind names the renderer bound to a tier.
type RendererKind int

const (
	RendererStatic RendererKind = iota
	RendererMorph
	RendererGraph
)

func (k RendererKind) String() string {
	switch k {
	case RendererGraph:
		return "graph"
	case RendererMorph:
		return "morph"
	}
	return "static"
}

// Variant distinguishes the two high-tier graph renderers.
type Variant int

const (
	VariantNone Variant = iota
	VariantAccelerated
	VariantDense2D
)

func (v Variant) String() string {
	switch v {
	case VariantAccelerated:
		return "accelerated"
	case VariantDense2D:
		return "dense-2d"
	}
	return "none"
}

// Binding is the concrete renderer choice for a tier.
type Binding struct {
	Kind    RendererKind
	Variant Variant
}

// Bind returns the renderer for t.
func Bind(t Tier, score capability.Score) Binding {
	switch t {
	case High:
		if score.HasGPUContext {
			return Binding{Kind: RendererGraph, Variant: VariantAccelerated}
		}
		return Binding{Kind: RendererGraph, Variant: VariantDense2D}
	case Medium:
		return Binding{Kind: RendererMorph}
	}
	return Binding{Kind: RendererStatic}
}
