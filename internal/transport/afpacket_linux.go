// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package transport

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// afPacketSender writes frames through an AF_PACKET raw socket. On a
// monitor-mode interface the kernel expects the same radiotap-prefixed
// frames pcap injection does.
type afPacketSender struct {
	iface string
	fd    int
	addr  *unix.SockaddrLinklayer
}

func openAFPacket(iface string) (Sender, error) {
	ifi, err := net.InterfaceByName(iface)
	if err != nil {
		return nil, fmt.Errorf("afpacket interface %s: %w", iface, err)
	}

	proto := htons(unix.ETH_P_ALL)
	fd, err := unix.Socket(unix.AF_PACKET, unix.SOCK_RAW|unix.SOCK_CLOEXEC, int(proto))
	if err != nil {
		return nil, fmt.Errorf("afpacket socket: %w", err)
	}

	addr := &unix.SockaddrLinklayer{Protocol: proto, Ifindex: ifi.Index}
	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("afpacket bind %s: %w", iface, err)
	}
	return &afPacketSender{iface: iface, fd: fd, addr: addr}, nil
}

func (s *afPacketSender) Send(frame []byte) error {
	if err := unix.Sendto(s.fd, frame, 0, s.addr); err != nil {
		return fmt.Errorf("afpacket send on %s: %w", s.iface, err)
	}
	return nil
}

func (s *afPacketSender) Close() error {
	return unix.Close(s.fd)
}

func htons(v uint16) uint16 {
	return v<<8 | v>>8
}
