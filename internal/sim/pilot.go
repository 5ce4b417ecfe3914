// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sim

import "math/rand/v2"

// DefaultPilotRadius bounds how far the pilot stands from the start, per axis.
const DefaultPilotRadius int64 = 20000

// RandomPilotLocation picks the pilot's fixed position once per run,
// offset from start by a uniform integer in [-radius, radius] on each axis.
func RandomPilotLocation(rng *rand.Rand, start Position, radius int64) Position {
	return Position{
		Lat: start.Lat + symmetric(rng, radius),
		Lng: start.Lng + symmetric(rng, radius),
	}
}
