// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package transport

// DefaultInterface is the usual name of a second, monitor-capable Wi-Fi
// adapter on Linux.
func DefaultInterface() (string, error) {
	return "wlan1", nil
}
