// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"fmt"
	"math"
	"time"

	nmea "github.com/adrianmo/go-nmea"

	"github.com/relabs-tech/autopilot_spoofer/internal/sim"
)

// Fix represents a single combined GPS fix suitable for JSON and NMEA.
type Fix struct {
	Time       time.Time `json:"time"`
	Latitude   float64   `json:"lat"`         // decimal degrees
	Longitude  float64   `json:"lon"`         // decimal degrees
	SpeedKnots float64   `json:"speed_knots"` // speed over ground
	CourseDeg  float64   `json:"course_deg"`  // course over ground
	Validity   string    `json:"validity"`    // "A" (valid) / "V" (void)
}

// NewFix converts a simulated state into a valid fix at t.
func NewFix(t time.Time, s sim.State) Fix {
	lat, lng := s.Position.Degrees()
	return Fix{
		Time:      t.UTC(),
		Latitude:  lat,
		Longitude: lng,
		CourseDeg: float64(s.Heading),
		Validity:  nmea.ValidRMC,
	}
}

// RMC renders the fix as a $GPRMC sentence, without line terminator.
func (f Fix) RMC() string {
	lat, ns := ddmm(f.Latitude, 2), "N"
	if f.Latitude < 0 {
		ns = "S"
	}
	lng, ew := ddmm(f.Longitude, 3), "E"
	if f.Longitude < 0 {
		ew = "W"
	}

	body := fmt.Sprintf("GPRMC,%s,%s,%s,%s,%s,%s,%.1f,%.1f,%s,0.0,E,A",
		f.Time.Format("150405.00"),
		f.Validity,
		lat, ns,
		lng, ew,
		f.SpeedKnots,
		f.CourseDeg,
		f.Time.Format("020106"),
	)
	return "$" + body + "*" + nmea.Checksum(body)
}

// ddmm formats |deg| as degrees and decimal minutes with four places,
// zero padded to width degree digits.
func ddmm(deg float64, width int) string {
	total := int64(math.Round(math.Abs(deg) * 60 * 10000)) // 1e-4 minutes
	d := total / 600000
	rem := total % 600000
	return fmt.Sprintf("%0*d%02d.%04d", width, d, rem/10000, rem%10000)
}
