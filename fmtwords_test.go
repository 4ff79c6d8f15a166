// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package bmpdata

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapTemplate is a fixed Template for tests.
type mapTemplate struct {
	names []string
	words map[string][2]uint16
}

func (m mapTemplate) Names() []string { return m.names }

func (m mapTemplate) FormatWords(name string) (uint16, uint16, bool) {
	w, ok := m.words[name]
	return w[0], w[1], ok
}

// tgaPayload builds a minimal TGA header with the given dimensions.
func tgaPayload(width, height uint16) []byte {
	data := make([]byte, 18)
	data[2] = 2 // uncompressed truecolor
	binary.LittleEndian.PutUint16(data[12:14], width)
	binary.LittleEndian.PutUint16(data[14:16], height)
	return data
}

func TestDeriveFormatWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		file  string
		data  []byte
		want1 uint16
		want2 uint16
	}{
		{"bmp size split", "TITLE.BMP", make([]byte, 0x12345), 0x0001, 0x2345},
		{"small bmp", "ICON.BMP", make([]byte, 100), 0, 100},
		{"unknown extension", "COLORS.PAL", make([]byte, 0x10002), 1, 2},
		{"tga width multiple of 16", "FACE.TGA", tgaPayload(64, 48), 4, 48},
		{"tga small odd width", "CURSOR.TGA", tgaPayload(100, 50), 0, 0x6432},
		{"tga wide odd width", "PANEL.TGA", tgaPayload(257, 100), 16, 100},
		{"tga tall odd width", "STRIP.TGA", tgaPayload(100, 300), 6, 300},
		{"tga lowercase extension", "face.tga", tgaPayload(32, 32), 2, 32},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f1, f2, err := deriveFormatWords(tc.file, tc.data, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want1, f1)
			assert.Equal(t, tc.want2, f2)
		})
	}
}

func TestDeriveFormatWordsShortTGA(t *testing.T) {
	t.Parallel()

	_, _, err := deriveFormatWords("TINY.TGA", make([]byte, 15), nil)
	assert.ErrorIs(t, err, ErrPayloadTooSmall)

	// Everything else derives from the length alone, however short
	f1, f2, err := deriveFormatWords("TINY.BMP", nil, nil)
	require.NoError(t, err)
	assert.Zero(t, f1)
	assert.Zero(t, f2)
}

func TestDeriveFormatWordsTemplate(t *testing.T) {
	t.Parallel()

	tmpl := mapTemplate{
		names: []string{"TITLE.BMP"},
		words: map[string][2]uint16{"TITLE.BMP": {0xAAAA, 0xBBBB}},
	}

	// Template words win over anything derived from the payload
	f1, f2, err := deriveFormatWords("TITLE.BMP", make([]byte, 100), tmpl)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xAAAA), f1)
	assert.Equal(t, uint16(0xBBBB), f2)

	// Names the template does not know fall back to derivation
	f1, f2, err = deriveFormatWords("OTHER.BMP", make([]byte, 100), tmpl)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), f1)
	assert.Equal(t, uint16(100), f2)
}
