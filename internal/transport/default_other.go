// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

//go:build !linux

package transport

import (
	"errors"
	"fmt"

	"github.com/google/gopacket/pcap"
)

// DefaultInterface returns the first capture device libpcap reports.
func DefaultInterface() (string, error) {
	devs, err := pcap.FindAllDevs()
	if err != nil {
		return "", fmt.Errorf("list interfaces: %w", err)
	}
	if len(devs) == 0 {
		return "", errors.New("no capture interfaces found, pass --interface")
	}
	return devs[0].Name, nil
}
