// Package config holds the engine's recognised options and their TOML form.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	WindowWidth  = 1024
	WindowHeight = 512

	// Frame-rate history kept for the overlay and `backdrop probe`.
	FPSHistorySize = 64

	// ReducedMotionEnv, when set to a truthy value, turns on reduced motion.
	ReducedMotionEnv = "BACKDROP_REDUCED_MOTION"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config is the construction-time configuration of the engine.
type Config struct {
	Theme         string  `toml:"theme"`
	ReducedMotion bool    `toml:"reduced_motion"`
	MaxFrameDelta float64 `toml:"max_frame_delta"` // seconds
	MotionSpeed   float64 `toml:"motion_speed"`    // speed factor under reduced motion
	MotionOpacity float64 `toml:"motion_opacity"`  // opacity factor under reduced motion

	Tier  TierConfig  `toml:"tier"`
	Graph GraphConfig `toml:"graph"`
	Morph MorphConfig `toml:"morph"`
}

// TierConfig controls tier selection.
type TierConfig struct {
	Force      string `toml:"force"`      // "", "high", "medium", "low"
	Connection string `toml:"connection"` // network class hint: "slow-2g", "2g", "3g", "4g"
}

// Range is an inclusive [min, max] pair, written as a two-element array.
type Range [2]float64

// Min returns the lower bound.
func (r Range) Min() float64 { return r[0] }

// Max returns the upper bound.
func (r Range) Max() float64 { return r[1] }

// GraphConfig configures the node-and-edge simulation.
type GraphConfig struct {
	ParticleCount    int             `toml:"particle_count"`
	ConstrainedCount int             `toml:"constrained_count"`
	MaxConnections   int             `toml:"max_connections"`
	MaxDistance      float64         `toml:"max_distance"`
	RespawnSpeed     Range           `toml:"respawn_speed"`
	RespawnSize      Range           `toml:"respawn_size"`
	InteractiveSize  float64         `toml:"interactive_size"`
	EdgeOpacity      float64         `toml:"edge_opacity"`
	Shockwave        ShockwaveConfig `toml:"shockwave"`
}

// ShockwaveConfig is the shape of a click-triggered wave.
type ShockwaveConfig struct {
	MaxRadius    float64 `toml:"max_radius"`
	Duration     float64 `toml:"duration"` // seconds
	MaxAmplitude float64 `toml:"max_amplitude"`
	WaveWidth    float64 `toml:"wave_width"`
}

// MorphConfig configures the procedural morph renderer.
type MorphConfig struct {
	BlobCount     int     `toml:"blob_count"`
	Points        int     `toml:"points"`
	ParticleCount int     `toml:"particle_count"`
	LinkDistance  float64 `toml:"link_distance"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Theme:         "dark",
		MaxFrameDelta: 0.1,
		MotionSpeed:   0.35,
		MotionOpacity: 0.6,
		Graph: GraphConfig{
			ParticleCount:    120,
			ConstrainedCount: 60,
			MaxConnections:   12,
			MaxDistance:      15,
			RespawnSpeed:     Range{3, 11},
			RespawnSize:      Range{0.3, 1.1},
			InteractiveSize:  1.8,
			EdgeOpacity:      0.5,
			Shockwave: ShockwaveConfig{
				MaxRadius:    60,
				Duration:     2,
				MaxAmplitude: 6,
				WaveWidth:    10,
			},
		},
		Morph: MorphConfig{
			BlobCount:     3,
			Points:        8,
			ParticleCount: 40,
			LinkDistance:  18,
		},
	}
}

// Load reads a TOML file over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as TOML.
func Save(path string, cfg *Config) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return toml.NewEncoder(f).Encode(cfg)
}

// ApplyEnv folds environment preferences into cfg.
func (c *Config) ApplyEnv(getenv func(string) string) {
	switch strings.ToLower(strings.TrimSpace(getenv(ReducedMotionEnv))) {
	case "1", "true", "yes", "on", "reduce":
		c.ReducedMotion = true
	}
}

// Validate checks every option and reports the first problem.
func (c *Config) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
	}
	switch strings.ToLower(c.Theme) {
	case "", "dark", "light":
	default:
		return bad("theme %q", c.Theme)
	}
	switch strings.ToLower(c.Tier.Force) {
	case "", "high", "medium", "low":
	default:
		return bad("tier.force %q", c.Tier.Force)
	}
	if c.MaxFrameDelta <= 0 {
		return bad("max_frame_delta must be positive")
	}
	if c.MotionSpeed <= 0 || c.MotionSpeed > 1 || c.MotionOpacity <= 0 || c.MotionOpacity > 1 {
		return bad("motion factors must be in (0, 1]")
	}

	g := c.Graph
	if g.ParticleCount < 2 || g.ConstrainedCount < 2 {
		return bad("graph particle counts must be at least 2")
	}
	if g.MaxConnections < 0 {
		return bad("graph.max_connections must not be negative")
	}
	if g.MaxDistance <= 0 {
		return bad("graph.max_distance must be positive")
	}
	if g.RespawnSpeed.Min() > g.RespawnSpeed.Max() || g.RespawnSpeed.Min() < 0 {
		return bad("graph.respawn_speed %v", g.RespawnSpeed)
	}
	if g.RespawnSize.Min() > g.RespawnSize.Max() || g.RespawnSize.Min() <= 0 {
		return bad("graph.respawn_size %v", g.RespawnSize)
	}
	s := g.Shockwave
	if s.Duration <= 0 || s.MaxRadius <= 0 || s.WaveWidth <= 0 || s.MaxAmplitude < 0 {
		return bad("graph.shockwave %+v", s)
	}

	m := c.Morph
	if m.BlobCount < 0 || m.Points < 3 || m.ParticleCount < 0 || m.LinkDistance <= 0 {
		return bad("morph %+v", m)
	}
	return nil
}
