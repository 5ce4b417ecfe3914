// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package remoteid

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/autopilot_spoofer/internal/sim"
)

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 500_000_000, time.UTC)

func newTestAssembler() *Assembler {
	a := NewAssembler(120)
	a.Now = func() time.Time { return fixedNow }
	return a
}

func TestBasicIDCarriesSerial(t *testing.T) {
	m := encodeBasicID("1581F5FKD229400BT")

	assert.Equal(t, byte(0x02), m[0])
	assert.Equal(t, byte(idTypeSerial<<4|uaTypeMultirotor), m[1])
	assert.Equal(t, "1581F5FKD229400BT", string(bytes.TrimRight(m[2:22], "\x00")))
	assert.Equal(t, []byte{0, 0, 0}, m[22:25])
}

func TestBasicIDTruncatesLongSerial(t *testing.T) {
	m := encodeBasicID(strings.Repeat("Z", 30))
	assert.Equal(t, strings.Repeat("Z", 20), string(m[2:22]))
}

func TestLocationEncoding(t *testing.T) {
	pos := sim.FromDegrees(52.5200066, 13.404954)
	m, err := encodeLocation(Vector{Position: pos, Heading: 335, AltitudeM: 120, HeightM: 120}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, byte(0x12), m[0])
	assert.Equal(t, byte(1), (m[1]>>1)&1, "heading >= 180 sets the E/W segment bit")
	assert.Equal(t, byte(155), m[2])
	assert.Equal(t, int32(pos.Lat), int32(binary.LittleEndian.Uint32(m[5:9])))
	assert.Equal(t, int32(pos.Lng), int32(binary.LittleEndian.Uint32(m[9:13])))
	assert.Equal(t, uint16((120+1000)/0.5), binary.LittleEndian.Uint16(m[15:17]))
	// 09:26.5 past the hour
	assert.Equal(t, uint16(5665), binary.LittleEndian.Uint16(m[21:23]))
}

func TestLocationNegativeCoordinates(t *testing.T) {
	pos := sim.Position{Lat: -338_688_000, Lng: -1_512_093_000}
	m, err := encodeLocation(Vector{Position: pos, Heading: 10}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, byte(0), (m[1]>>1)&1)
	assert.Equal(t, byte(10), m[2])
	assert.Equal(t, int32(pos.Lat), int32(binary.LittleEndian.Uint32(m[5:9])))
	assert.Equal(t, int32(pos.Lng), int32(binary.LittleEndian.Uint32(m[9:13])))
}

func TestLocationOutOfWireRange(t *testing.T) {
	_, err := encodeLocation(Vector{Position: sim.Position{Lat: math.MaxInt32 + 1}}, fixedNow)
	assert.Error(t, err)
}

func TestSpeedEncoding(t *testing.T) {
	v, mult := encodeSpeed(10)
	assert.Equal(t, byte(40), v)
	assert.Equal(t, byte(0), mult)

	v, mult = encodeSpeed(100)
	assert.Equal(t, byte(1), mult)
	assert.InDelta(t, 100, float64(v)*0.75+255*0.25, 0.75)
}

func TestSystemCarriesPilot(t *testing.T) {
	pilot := sim.Position{Lat: 525_201_000, Lng: 134_049_000}
	m, err := encodeSystem(pilot, 0, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, byte(0x42), m[0])
	assert.Equal(t, int32(pilot.Lat), int32(binary.LittleEndian.Uint32(m[2:6])))
	assert.Equal(t, int32(pilot.Lng), int32(binary.LittleEndian.Uint32(m[6:10])))
	assert.Equal(t, uint32(fixedNow.Sub(systemEpoch)/time.Second), binary.LittleEndian.Uint32(m[20:24]))
}

func TestPackLimits(t *testing.T) {
	var m [messageSize]byte
	pack, err := encodePack(m, m, m)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xF2, messageSize, 3}, pack[:3])
	assert.Len(t, pack, 3+3*messageSize)

	msgs := make([][messageSize]byte, maxPackMessages+1)
	_, err = encodePack(msgs...)
	assert.Error(t, err)
}

// vendorPack finds the Open Drone ID vendor element in a raw frame and
// returns the message counter and the message pack.
func vendorPack(t *testing.T, frame []byte) (byte, []byte) {
	t.Helper()
	marker := append([]byte{}, odidOUI...)
	marker = append(marker, odidVendorType)
	i := bytes.Index(frame, marker)
	require.GreaterOrEqual(t, i, 2, "vendor element not found")
	require.Equal(t, byte(layers.Dot11InformationElementIDVendor), frame[i-2])
	length := int(frame[i-1])
	body := frame[i : i+length]
	return body[4], body[5:]
}

func TestAssembleFrame(t *testing.T) {
	a := newTestAssembler()
	pos := sim.Position{Lat: 100000, Lng: 200000}
	pilot := sim.Position{Lat: 110000, Lng: 190000}

	frame, err := a.Assemble(pos, "SERIAL01", pilot, 335)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(frame, radiotapHeader))

	pkt := gopacket.NewPacket(frame[len(radiotapHeader):], layers.LayerTypeDot11, gopacket.Default)
	dot11, ok := pkt.Layer(layers.LayerTypeDot11).(*layers.Dot11)
	require.True(t, ok, "no 802.11 layer: %v", pkt.ErrorLayer())
	assert.Equal(t, layers.Dot11TypeMgmtBeacon, dot11.Type)
	assert.Equal(t, broadcastMAC, dot11.Address1)
	assert.Equal(t, SourceMAC("SERIAL01"), dot11.Address2)

	counter, pack := vendorPack(t, frame)
	assert.Equal(t, byte(0), counter)
	require.Equal(t, []byte{0xF2, messageSize, 3}, pack[:3])

	basic := pack[3 : 3+messageSize]
	loc := pack[3+messageSize : 3+2*messageSize]
	sys := pack[3+2*messageSize:]
	assert.Equal(t, "SERIAL01", string(bytes.TrimRight(basic[2:22], "\x00")))
	assert.Equal(t, int32(100000), int32(binary.LittleEndian.Uint32(loc[5:9])))
	assert.Equal(t, int32(200000), int32(binary.LittleEndian.Uint32(loc[9:13])))
	assert.Equal(t, byte(155), loc[2])
	assert.Equal(t, int32(110000), int32(binary.LittleEndian.Uint32(sys[2:6])))
}

func TestAssembleAdvancesCounters(t *testing.T) {
	a := newTestAssembler()
	for i := 0; i < 3; i++ {
		frame, err := a.Assemble(sim.Position{}, "S", sim.Position{}, 0)
		require.NoError(t, err)
		counter, _ := vendorPack(t, frame)
		assert.Equal(t, byte(i), counter)
	}
	assert.Equal(t, uint16(3), a.seq)

	a.seq = 0x0FFF
	_, err := a.Assemble(sim.Position{}, "S", sim.Position{}, 0)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), a.seq, "sequence number wraps at 12 bits")
}

func TestAssembleRejectsUnencodablePosition(t *testing.T) {
	a := newTestAssembler()
	_, err := a.Assemble(sim.Position{Lng: math.MinInt32 - 1}, "S", sim.Position{}, 0)
	assert.Error(t, err)
}

func TestSourceMAC(t *testing.T) {
	a, b := SourceMAC("ONE"), SourceMAC("TWO")
	assert.Equal(t, a, SourceMAC("ONE"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, byte(0x02), a[0]&0x03, "locally administered unicast")
}

func TestRandomSerial(t *testing.T) {
	rng := sim.NewRand(5)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		s := RandomSerial(rng)
		require.GreaterOrEqual(t, len(s), 13)
		require.LessOrEqual(t, len(s), 20)
		bodyLen := strings.IndexByte(lengthCodes, s[4]) + 1
		require.Equal(t, len(s)-5, bodyLen, "length character matches body in %q", s)
		require.NotContains(t, s, "O")
		require.NotContains(t, s, "I")
		seen[s] = true
	}
	assert.Greater(t, len(seen), 90)
}

func TestAssembleDerivesGroundSpeed(t *testing.T) {
	now := fixedNow
	a := NewAssembler(120)
	a.Now = func() time.Time { return now }

	speedOf := func(frame []byte) byte {
		_, pack := vendorPack(t, frame)
		loc := pack[3+messageSize : 3+2*messageSize]
		return loc[3]
	}

	frame, err := a.Assemble(sim.Position{}, "S", sim.Position{}, 0)
	require.NoError(t, err)
	assert.Equal(t, byte(0), speedOf(frame), "first frame has no previous position")

	// 1000 units of latitude (1e-4 degrees) in one second is about 11.12 m/s.
	now = now.Add(time.Second)
	frame, err = a.Assemble(sim.Position{Lat: 1000}, "S", sim.Position{}, 0)
	require.NoError(t, err)
	assert.Equal(t, byte(44), speedOf(frame))

	// Same instant: no elapsed time, speed is reported as 0.
	frame, err = a.Assemble(sim.Position{Lat: 2000}, "S", sim.Position{}, 0)
	require.NoError(t, err)
	assert.Equal(t, byte(0), speedOf(frame))
}
