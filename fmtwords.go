// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package bmpdata

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// deriveFormatWords computes the two TOC descriptor words for an entry
// about to be packed. A template lookup is authoritative when it knows
// the name; otherwise the words are derived from the raw payload by
// extension:
//
//   - .bmp (and any unknown extension): the decompressed length split
//     into high and low 16-bit halves.
//   - .tga: width and height read little-endian at payload offsets 12
//     and 14. Widths divisible by 16 store (width/16, height); otherwise
//     images with both dimensions under 256 store (0, width<<8|height),
//     and anything larger falls back to the truncating (width/16,
//     height) form.
func deriveFormatWords(name string, data []byte, tmpl Template) (uint16, uint16, error) {
	if tmpl != nil {
		if f1, f2, ok := tmpl.FormatWords(name); ok {
			return f1, f2, nil
		}
	}

	if strings.HasSuffix(strings.ToLower(name), ".tga") {
		if len(data) < 16 {
			return 0, 0, fmt.Errorf("%w: TGA %q is %d bytes, need 16 for dimensions",
				ErrPayloadTooSmall, name, len(data))
		}
		width := binary.LittleEndian.Uint16(data[12:14])
		height := binary.LittleEndian.Uint16(data[14:16])

		if width%16 == 0 {
			return width / 16, height, nil
		}
		if width < 256 && height < 256 {
			return 0, (width&0xFF)<<8 | height&0xFF, nil
		}
		return width / 16, height, nil
	}

	n := len(data)
	return uint16(n >> 16), uint16(n), nil
}
