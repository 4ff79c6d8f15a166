// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package bmpdata

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeParseRoundTrip(t *testing.T) {
	t.Parallel()

	packed := []packedEntry{
		{name: "TITLE.BMP", fmt1: 0x0001, fmt2: 0x2345, comp: []byte{0xDE, 0xAD}},
		{name: "chara/FACE01.TGA", fmt1: 0x0004, fmt2: 0x0030, comp: []byte{0xBE, 0xEF, 0x99}},
		{name: "EMPTY.BMP", fmt1: 0, fmt2: 0, comp: nil},
	}

	blob, err := serializeArchive(packed)
	require.NoError(t, err)
	require.Len(t, blob, CountSize+3*EntrySize+5)

	entries, data, err := parseArchive(blob)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x99}, data)

	for i, e := range entries {
		assert.Equal(t, packed[i].name, e.Name)
		assert.Equal(t, packed[i].fmt1, e.Fmt1)
		assert.Equal(t, packed[i].fmt2, e.Fmt2)
		assert.Equal(t, uint32(len(packed[i].comp)), e.CompressedSize)
	}

	// Offsets are the running sum of payload sizes
	assert.Equal(t, uint32(0), entries[0].RelativeOffset)
	assert.Equal(t, uint32(2), entries[1].RelativeOffset)
	assert.Equal(t, uint32(5), entries[2].RelativeOffset)
}

func TestSerializeEmpty(t *testing.T) {
	t.Parallel()

	blob, err := serializeArchive(nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, blob)

	entries, data, err := parseArchive(blob)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, data)
}

func TestParseTruncated(t *testing.T) {
	t.Parallel()

	t.Run("short header", func(t *testing.T) {
		t.Parallel()
		for _, blob := range [][]byte{nil, {0}, {0, 0, 0}} {
			_, _, err := parseArchive(blob)
			assert.ErrorIs(t, err, ErrTruncatedHeader)
		}
	})

	t.Run("short TOC", func(t *testing.T) {
		t.Parallel()
		blob := make([]byte, CountSize+EntrySize-1)
		binary.BigEndian.PutUint32(blob, 1)
		_, _, err := parseArchive(blob)
		assert.ErrorIs(t, err, ErrTruncatedTOC)
	})

	t.Run("hostile count", func(t *testing.T) {
		t.Parallel()
		// A count this large must be rejected by arithmetic, not by
		// attempting the allocation.
		blob := make([]byte, 64)
		binary.BigEndian.PutUint32(blob, 0xFFFFFFFF)
		_, _, err := parseArchive(blob)
		assert.ErrorIs(t, err, ErrTruncatedTOC)
	})
}

func TestPackName(t *testing.T) {
	t.Parallel()

	t.Run("exact fit", func(t *testing.T) {
		t.Parallel()
		name := strings.Repeat("A", NameLen)
		packed, err := packName(name)
		require.NoError(t, err)
		assert.Equal(t, name, nameString(packed))
	})

	t.Run("too long", func(t *testing.T) {
		t.Parallel()
		_, err := packName(strings.Repeat("A", NameLen+1))
		assert.ErrorIs(t, err, ErrNameTooLong)
	})

	t.Run("padded with NULs", func(t *testing.T) {
		t.Parallel()
		packed, err := packName("A.BMP")
		require.NoError(t, err)
		assert.Equal(t, "A.BMP", nameString(packed))
		for _, b := range packed[5:] {
			assert.Zero(t, b)
		}
	})

	t.Run("non-ASCII bytes dropped", func(t *testing.T) {
		t.Parallel()
		packed, err := packName("TITRE\xc3\xa9.BMP")
		require.NoError(t, err)
		assert.Equal(t, "TITRE.BMP", nameString(packed))
	})

	t.Run("dropping shortens below limit", func(t *testing.T) {
		t.Parallel()
		// 18 ASCII bytes plus a 2-byte sequence: 20 kept bytes fit even
		// though the raw name is longer than the field.
		name := strings.Repeat("B", 18) + "\xc3\xa9" + "XY"
		packed, err := packName(name)
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("B", 18)+"XY", nameString(packed))
	})
}

func TestNameString(t *testing.T) {
	t.Parallel()

	var raw [NameLen]byte
	copy(raw[:], "FACE.TGA")
	assert.Equal(t, "FACE.TGA", nameString(raw))

	// Non-ASCII bytes inside the field are dropped, as on write
	copy(raw[:], "FA\xffCE.TGA\x00")
	assert.Equal(t, "FACE.TGA", nameString(raw))

	// No NUL anywhere: the whole field is the name
	for i := range raw {
		raw[i] = 'x'
	}
	assert.Equal(t, strings.Repeat("x", NameLen), nameString(raw))
}
