// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package bmpdata

import (
	"bytes"

	"github.com/icza/bitio"
)

// 12-bit code packing. Two codes span three bytes in big-endian nibble
// order: byte0 = high 8 bits of code A, byte1 = low nibble of A then
// high nibble of B, byte2 = low 8 bits of B.

// packCodes packs 12-bit codes into the archive's payload byte layout.
// An odd code count leaves half a pair: its high 8 bits are followed by
// one trailing byte carrying the leftover low nibble in the high four
// bits, zero-padded.
func packCodes(codes []uint16) []byte {
	var buf bytes.Buffer
	buf.Grow(len(codes)*3/2 + 2)

	w := bitio.NewWriter(&buf)
	for _, c := range codes {
		w.TryWriteBits(uint64(c&0xFFF), 12)
	}
	// Writes to a bytes.Buffer cannot fail; Close flushes the padded
	// trailing byte for odd counts.
	w.Close()
	return buf.Bytes()
}

// unpackCodes expands a packed payload back into 12-bit codes. It reads
// codes until the stream cannot supply 12 more bits: a 2-byte tail still
// holds one complete code, a lone trailing byte holds none and is
// dropped.
func unpackCodes(data []byte) []uint16 {
	codes := make([]uint16, 0, len(data)*2/3+1)

	r := bitio.NewReader(bytes.NewReader(data))
	for {
		c, err := r.ReadBits(12)
		if err != nil {
			return codes
		}
		codes = append(codes, uint16(c))
	}
}
