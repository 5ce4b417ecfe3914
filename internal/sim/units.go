// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sim

import "math"

// UnitsPerDegree is the fixed-point scale used where positions meet the
// outside world (CLI input, Remote ID and NMEA output). The walk itself
// never depends on it.
const UnitsPerDegree = 1e7

// FromDegrees converts decimal degrees into a Position.
func FromDegrees(lat, lng float64) Position {
	return Position{
		Lat: int64(math.Round(lat * UnitsPerDegree)),
		Lng: int64(math.Round(lng * UnitsPerDegree)),
	}
}

// Degrees returns the position in decimal degrees.
func (p Position) Degrees() (lat, lng float64) {
	return float64(p.Lat) / UnitsPerDegree, float64(p.Lng) / UnitsPerDegree
}

const earthRadiusM = 6371000

// DistanceMeters is the great-circle (haversine) distance between a and b.
func DistanceMeters(a, b Position) float64 {
	lat1, lng1 := a.Degrees()
	lat2, lng2 := b.Degrees()

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusM * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
