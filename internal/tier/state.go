package tier

import (
	"time"

	"github.com/iburimskiy/backdrop/internal/capability"
	"github.com/iburimskiy/backdrop/internal/logx"
)

// State is the current tier plus the time it was last reassessed.
type State struct {
	Current          Tier
	LastReassessment time.Time

	score  capability.Score
	window time.Duration
}

// NewState seeds the tier from score, capped by ceiling (use High for no
// cap).
func NewState(score capability.Score, ceiling Tier) *State {
	return &State{
		Current: Select(score, 0, ceiling),
		score:   score,
		window:  Window,
	}
}

// Score returns the capability score the state was seeded with.
func (s *State) Score() capability.Score { return s.score }

// Binding returns the renderer for the current tier.
func (s *State) Binding() Binding { return Bind(s.Current, s.score) }

// Reassess applies Select with the latest frame rate, at most once per
// window. It reports whether the tier changed.
func (s *State) Reassess(now time.Time, fps int) bool {
	if !s.LastReassessment.IsZero() && now.Sub(s.LastReassessment) < s.window {
		return false
	}
	s.LastReassessment = now

	next := Select(s.score, fps, s.Current)
	if next == s.Current {
		return false
	}
	logx.Logger().Info("tier: downgrade", "from", s.Current.String(), "to", next.String(), "fps", fps)
	s.Current = next
	return true
}
