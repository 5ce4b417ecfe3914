// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package remoteid

import (
	"math/rand/v2"
	"strings"
)

// ANSI/CTA-2063-A serials use digits and upper case letters without O and I.
const serialAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// lengthCodes maps a serial body length (1-15) to its length character.
const lengthCodes = "123456789ABCDEF"

// RandomSerial returns a CTA-2063-A shaped serial: a four character
// manufacturer code, one length character and a body of that length.
// The result is at most 20 characters.
func RandomSerial(rng *rand.Rand) string {
	bodyLen := 8 + rng.IntN(8) // 8-15

	var b strings.Builder
	b.Grow(5 + bodyLen)
	for i := 0; i < 4; i++ {
		b.WriteByte(serialAlphabet[rng.IntN(len(serialAlphabet))])
	}
	b.WriteByte(lengthCodes[bodyLen-1])
	for i := 0; i < bodyLen; i++ {
		b.WriteByte(serialAlphabet[rng.IntN(len(serialAlphabet))])
	}
	return b.String()
}
