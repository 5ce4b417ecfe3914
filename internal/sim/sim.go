// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sim

import (
	"math"
	"math/rand/v2"
)

const (
	// DefaultJitter is the per-axis position jitter, in position units.
	DefaultJitter int64 = 1000
	// DefaultMaxTurn is the largest heading change per tick, in degrees.
	DefaultMaxTurn = 30
	// MaxJitter caps configured jitter and pilot radius: 1e9 units is 100
	// degrees, far beyond any plausible drift per tick.
	MaxJitter int64 = 1_000_000_000
)

// Position is a fixed-point coordinate pair. Jitter is expressed in the
// same unit. No latitude/longitude bounds are enforced: a long run can
// drift arbitrarily far from where it started.
type Position struct {
	Lat int64 `json:"lat"`
	Lng int64 `json:"lng"`
}

// State is the simulated aircraft: where it is and where it points.
type State struct {
	Position Position `json:"position"`
	Heading  int      `json:"heading"` // degrees, [0, 360)
}

// NewState returns the initial state for a run. Heading starts at 0.
func NewState(start Position) State {
	return State{Position: start}
}

// Walker advances a State with a bounded random walk.
type Walker struct {
	rng     *rand.Rand
	jitter  int64
	maxTurn int
}

// NewWalker builds a Walker drawing from rng. Negative bounds are taken
// by magnitude.
func NewWalker(rng *rand.Rand, jitter int64, maxTurn int) *Walker {
	if jitter < 0 {
		jitter = -jitter
	}
	if maxTurn < 0 {
		maxTurn = -maxTurn
	}
	return &Walker{rng: rng, jitter: jitter, maxTurn: maxTurn}
}

// Jitter returns the per-axis bound J.
func (w *Walker) Jitter() int64 { return w.jitter }

// Advance returns the next position and heading. Each axis moves by an
// independent uniform integer in [-J, J]; heading turns by a uniform
// integer in [-maxTurn, maxTurn] and wraps into [0, 360).
func (w *Walker) Advance(pos Position, heading int) (Position, int) {
	next := Position{
		Lat: pos.Lat + w.offset(w.jitter),
		Lng: pos.Lng + w.offset(w.jitter),
	}
	turn := int(w.offset(int64(w.maxTurn)))
	return next, NormalizeHeading(heading + turn)
}

// Step advances s in place.
func (w *Walker) Step(s *State) {
	s.Position, s.Heading = w.Advance(s.Position, s.Heading)
}

func (w *Walker) offset(bound int64) int64 {
	return symmetric(w.rng, bound)
}

// symmetric draws a uniform integer in [-|bound|, |bound|]. The span is
// computed in uint64 so bounds near math.MaxInt64 do not overflow.
func symmetric(rng *rand.Rand, bound int64) int64 {
	if bound < 0 {
		bound = -bound
	}
	if bound >= 0 && bound < math.MaxInt64 {
		span := 2*uint64(bound) + 1
		return int64(rng.Uint64N(span) - uint64(bound))
	}
	// |bound| is MaxInt64 (or MinInt64's, which does not fit): every int64
	// but MinInt64.
	for {
		if v := int64(rng.Uint64()); v != math.MinInt64 {
			return v
		}
	}
}

// NormalizeHeading maps any integer onto [0, 360) using floored modulo,
// so 5-30 becomes 335 rather than -25.
func NormalizeHeading(h int) int {
	h %= 360
	if h < 0 {
		h += 360
	}
	return h
}

// NewRand returns a PCG-backed generator. A zero seed draws one from the
// runtime's entropy source.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
