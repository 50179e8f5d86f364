// Package capability scores the runtime environment into a coarse
// rendering tier. Probing never fails: missing or broken signals fall back
// to conservative defaults.
package capability

import (
	"fmt"
	"strings"

	"github.com/iburimskiy/backdrop/internal/logx"
)

// Tier is a rendering-cost level. Higher values cost more.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// ParseTier parses "high", "medium" or "low".
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return TierHigh, nil
	case "medium":
		return TierMedium, nil
	case "low":
		return TierLow, nil
	}
	return TierLow, fmt.Errorf("unknown tier %q", s)
}

// ConnectionClass is the effective network class reported by the host.
type ConnectionClass string

const (
	ConnectionUnknown ConnectionClass = ""
	ConnectionSlow2G  ConnectionClass = "slow-2g"
	Connection2G      ConnectionClass = "2g"
	Connection3G      ConnectionClass = "3g"
	Connection4G      ConnectionClass = "4g"
)

// Slow reports whether the class is 2g or worse.
func (c ConnectionClass) Slow() bool {
	return c == ConnectionSlow2G || c == Connection2G
}

// Conservative defaults used when a signal is missing.
const (
	DefaultMemoryGB = 4
	DefaultCores    = 2
)

// Score is an immutable snapshot of the probed environment.
type Score struct {
	HasGPUContext bool
	MemoryGB      float64
	Cores         int
	Mobile        bool
	Connection    ConnectionClass
}

// Tier maps the score to a starting tier.
func (s Score) Tier() Tier {
	if !s.HasGPUContext {
		switch {
		case s.Cores >= 8 && s.MemoryGB >= 8 && !s.Mobile:
			return TierHigh
		case s.Cores >= 2 && s.MemoryGB >= 2:
			return TierMedium
		}
		return TierLow
	}

	points := 0
	if s.MemoryGB >= 4 {
		points++
	}
	if s.Cores >= 4 {
		points++
	}
	if !s.Mobile {
		points++
	}
	if !s.Connection.Slow() {
		points++
	}
	switch {
	case points >= 3:
		return TierHigh
	case points >= 1:
		return TierMedium
	}
	return TierLow
}

// Constrained reports whether the device should get the reduced node budget.
func (s Score) Constrained() bool {
	return s.Mobile || s.MemoryGB < 4 || s.Cores < 4
}

// Environment supplies the signals the probe reads. Every method may report
// absence; the probe substitutes a default.
type Environment interface {
	// GPU attempts to acquire a GPU drawing context and releases it again.
	GPU() error
	MemoryGB() (float64, bool)
	Cores() (int, bool)
	Mobile() bool
	Connection() (ConnectionClass, bool)
}

// Probe scores env once. It never returns an error and never panics.
func Probe(env Environment) Score {
	s := Score{
		HasGPUContext: gpuAvailable(env),
		MemoryGB:      DefaultMemoryGB,
		Cores:         DefaultCores,
		Connection:    ConnectionUnknown,
	}
	log := logx.Logger()

	if gb, ok := env.MemoryGB(); ok && gb > 0 {
		s.MemoryGB = gb
	} else {
		log.Debug("capability: memory signal missing, using default", "gb", s.MemoryGB)
	}
	if n, ok := env.Cores(); ok && n > 0 {
		s.Cores = n
	} else {
		log.Debug("capability: core signal missing, using default", "cores", s.Cores)
	}
	s.Mobile = env.Mobile()
	if c, ok := env.Connection(); ok {
		s.Connection = c
	}

	log.Debug("capability: probed",
		"gpu", s.HasGPUContext,
		"memory_gb", s.MemoryGB,
		"cores", s.Cores,
		"mobile", s.Mobile,
		"connection", string(s.Connection),
		"tier", s.Tier().String(),
	)
	return s
}

func gpuAvailable(env Environment) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logx.Logger().Warn("capability: gpu test panicked", "panic", r)
			ok = false
		}
	}()
	if err := env.GPU(); err != nil {
		logx.Logger().Debug("capability: no gpu context", "err", err)
		return false
	}
	return true
}
