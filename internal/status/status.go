// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package status fans out one record per transmitted frame to optional
// observers: MQTT, an NMEA serial mirror and a websocket feed.
package status

import (
	"time"

	"github.com/relabs-tech/autopilot_spoofer/internal/sim"
)

// Record describes one sent frame.
type Record struct {
	Seq     uint64       `json:"seq"`
	Time    time.Time    `json:"time"`
	Serial  string       `json:"serial"`
	State   sim.State    `json:"state"`
	Pilot   sim.Position `json:"pilot"`
	LatDeg  float64      `json:"lat_deg"`
	LngDeg  float64      `json:"lng_deg"`
	FrameSz int          `json:"frame_bytes"`
}

// NewRecord fills the derived degree fields.
func NewRecord(seq uint64, t time.Time, serial string, st sim.State, pilot sim.Position, frameLen int) Record {
	lat, lng := st.Position.Degrees()
	return Record{
		Seq:     seq,
		Time:    t,
		Serial:  serial,
		State:   st,
		Pilot:   pilot,
		LatDeg:  lat,
		LngDeg:  lng,
		FrameSz: frameLen,
	}
}

// Sink observes sent frames. Publish is called from the transmit loop and
// must not block for long.
type Sink interface {
	Publish(rec Record) error
	Close() error
}
