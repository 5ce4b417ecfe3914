// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package remoteid

import (
	"hash/fnv"
	"net"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/relabs-tech/autopilot_spoofer/internal/sim"
)

// Wi-Fi Beacon transport for Open Drone ID: a vendor specific element
// with the ASD-STAN OUI carrying a message pack.
var (
	odidOUI        = []byte{0xFA, 0x0B, 0xBC}
	broadcastMAC   = net.HardwareAddr{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	supportedRates = []byte{0x82, 0x84, 0x8B, 0x96, 0x0C, 0x12, 0x18, 0x24}
)

const (
	odidVendorType = 0x0D
	beaconInterval = 100 // TU
	capabilityESS  = 0x0001
	ssidPrefix     = "RID-"
	defaultChannel = 6
)

// radiotapHeader is the minimal radiotap header (version 0, length 8,
// no fields present) expected by monitor-mode injection.
var radiotapHeader = []byte{0x00, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00}

// Assembler turns one simulated state into an injectable beacon frame.
// It keeps the 802.11 sequence number, the message counter and the last
// position (for ground speed), so one Assembler must serve one
// transmitter. Not safe for concurrent use.
type Assembler struct {
	AltitudeM float64
	Channel   byte
	Now       func() time.Time

	start   time.Time
	seq     uint16
	counter uint8

	last   sim.Position
	lastAt time.Time
}

// NewAssembler returns an Assembler with a fixed cruise altitude.
func NewAssembler(altitudeM float64) *Assembler {
	return &Assembler{
		AltitudeM: altitudeM,
		Channel:   defaultChannel,
		Now:       time.Now,
	}
}

// Assemble builds the frame for one tick. The result starts with a
// radiotap header followed by an 802.11 beacon.
func (a *Assembler) Assemble(pos sim.Position, serial string, pilot sim.Position, heading int) ([]byte, error) {
	now := a.Now()
	if a.start.IsZero() {
		a.start = now
	}
	speed := a.groundSpeed(pos, now)

	basic := encodeBasicID(serial)
	loc, err := encodeLocation(Vector{
		Position:  pos,
		Heading:   heading,
		SpeedMps:  speed,
		AltitudeM: a.AltitudeM,
		HeightM:   a.AltitudeM,
	}, now)
	if err != nil {
		return nil, err
	}
	sys, err := encodeSystem(pilot, 0, now)
	if err != nil {
		return nil, err
	}
	pack, err := encodePack(basic, loc, sys)
	if err != nil {
		return nil, err
	}

	vendor := make([]byte, 0, len(odidOUI)+2+len(pack))
	vendor = append(vendor, odidOUI...)
	vendor = append(vendor, odidVendorType, a.counter)
	vendor = append(vendor, pack...)

	mac := SourceMAC(serial)
	ssid := ssidPrefix + serial

	buf := gopacket.NewSerializeBuffer()
	err = gopacket.SerializeLayers(buf, gopacket.SerializeOptions{},
		gopacket.Payload(radiotapHeader),
		&layers.Dot11{
			Type:           layers.Dot11TypeMgmtBeacon,
			Address1:       broadcastMAC,
			Address2:       mac,
			Address3:       mac,
			SequenceNumber: a.seq,
		},
		&layers.Dot11MgmtBeacon{
			Timestamp: uint64(now.Sub(a.start) / time.Microsecond),
			Interval:  beaconInterval,
			Flags:     capabilityESS,
		},
		infoElement(layers.Dot11InformationElementIDSSID, []byte(ssid)),
		infoElement(layers.Dot11InformationElementIDRates, supportedRates),
		infoElement(layers.Dot11InformationElementIDDSSet, []byte{a.Channel}),
		infoElement(layers.Dot11InformationElementIDVendor, vendor),
	)
	if err != nil {
		return nil, err
	}

	a.seq = (a.seq + 1) & 0x0FFF
	a.counter++
	a.last, a.lastAt = pos, now
	return buf.Bytes(), nil
}

// groundSpeed is the speed implied by the move since the previous frame.
// The first frame, or one at the same instant, reports 0.
func (a *Assembler) groundSpeed(pos sim.Position, now time.Time) float64 {
	if a.lastAt.IsZero() {
		return 0
	}
	dt := now.Sub(a.lastAt).Seconds()
	if dt <= 0 {
		return 0
	}
	return sim.DistanceMeters(a.last, pos) / dt
}

func infoElement(id layers.Dot11InformationElementID, info []byte) *layers.Dot11InformationElement {
	return &layers.Dot11InformationElement{
		ID:     id,
		Length: uint8(len(info)),
		Info:   info,
	}
}

// SourceMAC derives a stable, locally administered unicast address from
// the serial so a receiver sees one transmitter per spoofed drone.
func SourceMAC(serial string) net.HardwareAddr {
	h := fnv.New64a()
	h.Write([]byte(serial))
	sum := h.Sum64()

	mac := make(net.HardwareAddr, 6)
	for i := range mac {
		mac[i] = byte(sum >> (8 * i))
	}
	mac[0] = (mac[0] | 0x02) &^ 0x01
	return mac
}
