// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package remoteid

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/relabs-tech/autopilot_spoofer/internal/sim"
)

// Open Drone ID message layout (ASTM F3411-22a). Every message is a
// 25 byte block: one header byte followed by 24 bytes of payload.
const (
	messageSize     = 25
	protocolVersion = 2

	msgBasicID  = 0x0
	msgLocation = 0x1
	msgSystem   = 0x4
	msgPack     = 0xF

	maxPackMessages = 9
	idLen           = 20
)

// Basic ID field values.
const (
	idTypeSerial     = 1 // ANSI/CTA-2063-A
	uaTypeMultirotor = 2
)

// Location status and accuracy codes.
const (
	statusAirborne   = 2
	horizAcc10m      = 10
	vertAcc10m       = 3
	speedAcc1mps     = 3
	timestampAcc0_1s = 1
)

// operatorLocTakeOff marks the System message operator position as the take-off point.
const operatorLocTakeOff = 0

var systemEpoch = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)

// Vector is the kinematic part of a Location message.
type Vector struct {
	Position   sim.Position
	Heading    int     // degrees, [0, 360)
	SpeedMps   float64 // horizontal ground speed
	AltitudeM  float64 // geodetic, also used for pressure altitude
	HeightM    float64 // above take-off
	VerticalMs float64
}

func header(msgType byte) byte {
	return msgType<<4 | protocolVersion
}

// encodeBasicID builds a Basic ID message carrying a serial number.
func encodeBasicID(serial string) [messageSize]byte {
	var m [messageSize]byte
	m[0] = header(msgBasicID)
	m[1] = idTypeSerial<<4 | uaTypeMultirotor
	copy(m[2:2+idLen], serial) // truncated to 20 bytes, null padded
	return m
}

// encodeLocation builds a Location/Vector message.
func encodeLocation(v Vector, now time.Time) ([messageSize]byte, error) {
	var m [messageSize]byte

	lat, err := wireCoord(v.Position.Lat)
	if err != nil {
		return m, fmt.Errorf("latitude: %w", err)
	}
	lng, err := wireCoord(v.Position.Lng)
	if err != nil {
		return m, fmt.Errorf("longitude: %w", err)
	}

	heading := sim.NormalizeHeading(v.Heading)
	var ewSegment byte
	if heading >= 180 {
		ewSegment = 1
		heading -= 180
	}
	speed, speedMult := encodeSpeed(v.SpeedMps)

	m[0] = header(msgLocation)
	m[1] = statusAirborne<<4 | ewSegment<<1 | speedMult
	m[2] = byte(heading)
	m[3] = speed
	m[4] = byte(int8(clamp(v.VerticalMs/0.5, -124, 124)))
	binary.LittleEndian.PutUint32(m[5:9], uint32(lat))
	binary.LittleEndian.PutUint32(m[9:13], uint32(lng))
	binary.LittleEndian.PutUint16(m[13:15], encodeAltitude(v.AltitudeM))
	binary.LittleEndian.PutUint16(m[15:17], encodeAltitude(v.AltitudeM))
	binary.LittleEndian.PutUint16(m[17:19], encodeAltitude(v.HeightM))
	m[19] = vertAcc10m<<4 | horizAcc10m
	m[20] = vertAcc10m<<4 | speedAcc1mps
	binary.LittleEndian.PutUint16(m[21:23], tenthsSinceHour(now))
	m[23] = timestampAcc0_1s
	return m, nil
}

// encodeSystem builds a System message with the operator (pilot) position.
func encodeSystem(pilot sim.Position, altitudeM float64, now time.Time) ([messageSize]byte, error) {
	var m [messageSize]byte

	lat, err := wireCoord(pilot.Lat)
	if err != nil {
		return m, fmt.Errorf("operator latitude: %w", err)
	}
	lng, err := wireCoord(pilot.Lng)
	if err != nil {
		return m, fmt.Errorf("operator longitude: %w", err)
	}

	m[0] = header(msgSystem)
	m[1] = operatorLocTakeOff
	binary.LittleEndian.PutUint32(m[2:6], uint32(lat))
	binary.LittleEndian.PutUint32(m[6:10], uint32(lng))
	binary.LittleEndian.PutUint16(m[10:12], 1) // area count
	m[12] = 0                                  // area radius
	binary.LittleEndian.PutUint16(m[13:15], encodeAltitude(-1000))
	binary.LittleEndian.PutUint16(m[15:17], encodeAltitude(-1000))
	binary.LittleEndian.PutUint16(m[18:20], encodeAltitude(altitudeM))
	binary.LittleEndian.PutUint32(m[20:24], uint32(now.Sub(systemEpoch)/time.Second))
	return m, nil
}

// encodePack wraps messages into a Message Pack.
func encodePack(msgs ...[messageSize]byte) ([]byte, error) {
	if len(msgs) > maxPackMessages {
		return nil, fmt.Errorf("message pack holds at most %d messages, got %d", maxPackMessages, len(msgs))
	}
	out := make([]byte, 0, 3+len(msgs)*messageSize)
	out = append(out, header(msgPack), messageSize, byte(len(msgs)))
	for _, m := range msgs {
		out = append(out, m[:]...)
	}
	return out, nil
}

// wireCoord narrows a position to the int32 the message format carries.
func wireCoord(v int64) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("coordinate %d does not fit the wire format", v)
	}
	return int32(v), nil
}

// encodeSpeed returns the speed byte and multiplier flag.
func encodeSpeed(mps float64) (byte, byte) {
	switch {
	case mps <= 0:
		return 0, 0
	case mps <= 255*0.25:
		return byte(math.Round(mps / 0.25)), 0
	default:
		return byte(clamp((mps-255*0.25)/0.75, 0, 254)), 1
	}
}

func encodeAltitude(m float64) uint16 {
	return uint16(clamp((m+1000)/0.5, 0, math.MaxUint16))
}

func tenthsSinceHour(t time.Time) uint16 {
	t = t.UTC()
	sinceHour := t.Sub(t.Truncate(time.Hour))
	return uint16(sinceHour / (100 * time.Millisecond))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
