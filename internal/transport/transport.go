// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package transport sends raw link-layer frames out of a network interface.
package transport

import (
	"errors"
	"fmt"
)

// Sender is a send-only link-layer channel. Send may block for as long
// as the driver does; no timeout is applied.
type Sender interface {
	Send(frame []byte) error
	Close() error
}

// Kinds accepted by Open.
const (
	KindPcap     = "pcap"
	KindAFPacket = "afpacket"
)

// ErrUnsupported is returned when a transport kind is not available on
// this platform.
var ErrUnsupported = errors.New("transport not supported on this platform")

// ErrNoInterface is returned by Open when no interface name is given.
// Callers resolve a default with DefaultInterface first.
var ErrNoInterface = errors.New("no interface given")

// Open binds a Sender of the given kind to iface.
func Open(kind, iface string) (Sender, error) {
	if iface == "" {
		return nil, ErrNoInterface
	}

	switch kind {
	case "", KindPcap:
		return openPcap(iface)
	case KindAFPacket:
		return openAFPacket(iface)
	default:
		return nil, fmt.Errorf("unknown transport %q", kind)
	}
}
