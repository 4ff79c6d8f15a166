// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package bmpdata

import "fmt"

// LZW variant constants. Codes are fixed 12-bit: 0-255 are byte
// literals, 256 is a dictionary reset marker (honored on decode, never
// emitted on encode), 257-4095 reference dictionary entries.
const (
	lzwClear   = 256
	lzwFirst   = 257
	lzwMaxCode = 4095

	// lzwDictCap is the number of usable dictionary entries; entry k
	// corresponds to code lzwFirst+k.
	lzwDictCap = lzwMaxCode - lzwFirst + 1
)

// compressPayload encodes raw bytes into a packed archive payload.
func compressPayload(data []byte) []byte {
	return packCodes(lzwEncode(data))
}

// decompressPayload decodes a packed archive payload back to raw bytes.
func decompressPayload(comp []byte) ([]byte, error) {
	return lzwDecode(unpackCodes(comp))
}

// lzwEncode compresses data into 12-bit codes. Single bytes emit their
// own value; longer matches emit their dictionary code. New sequences
// are registered until the code space is exhausted, after which the
// dictionary is frozen. The reset code 256 is never emitted.
func lzwEncode(data []byte) []uint16 {
	if len(data) == 0 {
		return nil
	}

	codes := make([]uint16, 0, len(data)/2+1)
	dict := make(map[string]uint16)
	next := uint16(lzwFirst)

	// data[start:end] is the longest sequence matched so far.
	start := 0
	for end := 1; end < len(data); end++ {
		if _, ok := dict[string(data[start:end+1])]; ok {
			continue
		}
		codes = append(codes, matchCode(dict, data[start:end]))
		if next <= lzwMaxCode {
			dict[string(data[start:end+1])] = next
			next++
		}
		start = end
	}
	return append(codes, matchCode(dict, data[start:]))
}

// matchCode returns the code for a matched sequence: the byte itself for
// single bytes, the registered dictionary code otherwise.
func matchCode(dict map[string]uint16, seq []byte) uint16 {
	if len(seq) == 1 {
		return uint16(seq[0])
	}
	return dict[string(seq)]
}

// lzwDecode decompresses 12-bit codes. The first code must be a literal.
// Code 256 resets the dictionary length without touching the previous
// code, so the entry added after a reset still stitches across it when
// the previous code is a literal; a reference to a discarded entry fails
// instead of reading stale state.
func lzwDecode(codes []uint16) ([]byte, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	if codes[0] > 0xFF {
		return nil, fmt.Errorf("first code %d is not a literal", codes[0])
	}

	out := make([]byte, 0, len(codes)*2)
	out = append(out, byte(codes[0]))

	dict := make([][]byte, 0, lzwDictCap)
	prev := codes[0]

	for _, code := range codes[1:] {
		if code == lzwClear {
			dict = dict[:0]
			continue
		}

		seq, err := lzwResolve(code, prev, dict)
		if err != nil {
			return nil, err
		}
		out = append(out, seq...)

		if len(dict) < lzwDictCap {
			base, err := lzwLookup(prev, dict)
			if err != nil {
				return nil, err
			}
			entry := make([]byte, 0, len(base)+1)
			entry = append(entry, base...)
			entry = append(entry, seq[0])
			dict = append(dict, entry)
		}
		prev = code
	}
	return out, nil
}

// lzwResolve maps a code to its byte sequence. A code one past the
// dictionary end is the KwKwK case: the encoder referenced the entry it
// was about to commit, which expands to the previous sequence plus its
// own first byte. Resolution bottoms out in lzwLookup, so adversarial
// streams cannot recurse.
func lzwResolve(code, prev uint16, dict [][]byte) ([]byte, error) {
	if int(code)-lzwFirst == len(dict) {
		base, err := lzwLookup(prev, dict)
		if err != nil {
			return nil, err
		}
		seq := make([]byte, 0, len(base)+1)
		seq = append(seq, base...)
		seq = append(seq, base[0])
		return seq, nil
	}
	return lzwLookup(code, dict)
}

// lzwLookup returns the sequence for a literal or an already committed
// dictionary entry.
func lzwLookup(code uint16, dict [][]byte) ([]byte, error) {
	switch {
	case code < lzwClear:
		return []byte{byte(code)}, nil
	case code >= lzwFirst && int(code-lzwFirst) < len(dict):
		return dict[code-lzwFirst], nil
	default:
		return nil, fmt.Errorf("code %d references undefined dictionary entry (%d committed)", code, len(dict))
	}
}
