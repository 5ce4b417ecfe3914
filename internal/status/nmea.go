// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package status

import (
	"fmt"
	"io"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/autopilot_spoofer/internal/gps"
)

// NMEASink mirrors the simulated track as $GPRMC sentences, so anything
// that consumes a GPS receiver sees the spoofed drone's position.
type NMEASink struct {
	w io.WriteCloser
}

// OpenNMEA opens a serial port for the mirror.
func OpenNMEA(portName string, baud int) (*NMEASink, error) {
	port, err := serial.Open(serial.OpenOptions{
		PortName:              portName,
		BaudRate:              uint(baud),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("nmea serial %s: %w", portName, err)
	}
	return NewNMEASink(port), nil
}

// NewNMEASink writes sentences to w.
func NewNMEASink(w io.WriteCloser) *NMEASink {
	return &NMEASink{w: w}
}

func (s *NMEASink) Publish(rec Record) error {
	line := gps.NewFix(rec.Time, rec.State).RMC() + "\r\n"
	if _, err := io.WriteString(s.w, line); err != nil {
		return fmt.Errorf("nmea write: %w", err)
	}
	return nil
}

func (s *NMEASink) Close() error {
	return s.w.Close()
}
