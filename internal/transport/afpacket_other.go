// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

//go:build !linux

package transport

import "fmt"

func openAFPacket(iface string) (Sender, error) {
	return nil, fmt.Errorf("afpacket on %s: %w", iface, ErrUnsupported)
}
