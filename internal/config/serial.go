// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import "unicode/utf8"

// MaxSerialLen is the longest serial the Basic ID message can carry.
const MaxSerialLen = 20

// ValidateSerial returns s and true when it is 1 to MaxSerialLen characters
// long. Anything else is reported as absent so the caller can substitute
// a generated serial.
func ValidateSerial(s string) (string, bool) {
	n := utf8.RuneCountInString(s)
	if n < 1 || n > MaxSerialLen {
		return "", false
	}
	return s, true
}
