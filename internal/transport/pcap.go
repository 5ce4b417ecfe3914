// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package transport

import (
	"fmt"

	"github.com/google/gopacket/pcap"
)

const snapLen = 2048

type pcapSender struct {
	iface  string
	handle *pcap.Handle
}

func openPcap(iface string) (Sender, error) {
	handle, err := pcap.OpenLive(iface, snapLen, true, pcap.BlockForever)
	if err != nil {
		return nil, fmt.Errorf("pcap open %s: %w", iface, err)
	}
	return &pcapSender{iface: iface, handle: handle}, nil
}

func (s *pcapSender) Send(frame []byte) error {
	if err := s.handle.WritePacketData(frame); err != nil {
		return fmt.Errorf("pcap send on %s: %w", s.iface, err)
	}
	return nil
}

func (s *pcapSender) Close() error {
	s.handle.Close()
	return nil
}
