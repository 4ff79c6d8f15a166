// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package bmpdata

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Archive layout constants. All integers in the file are big-endian.
const (
	// CountSize is the size of the u32 entry count at offset 0.
	CountSize = 4

	// EntrySize is the fixed size of one TOC record.
	EntrySize = 32

	// NameLen is the on-disk name field width: ASCII, NUL-padded.
	NameLen = 20
)

// Entry describes one archived file as listed in the TOC.
type Entry struct {
	// Name is the entry name, truncated at the first NUL. May contain
	// forward slashes for files packed from subdirectories.
	Name string

	// Fmt1 and Fmt2 are the two format descriptor words. Their meaning
	// depends on the payload type; the archive itself treats them as
	// opaque.
	Fmt1 uint16
	Fmt2 uint16

	// RelativeOffset is the payload position measured from the end of
	// the TOC, not from the start of the file.
	RelativeOffset uint32

	// CompressedSize is the payload length in bytes.
	CompressedSize uint32
}

// tocRecord is the on-disk layout of one TOC entry.
type tocRecord struct {
	Name     [NameLen]byte
	Fmt1     uint16
	Fmt2     uint16
	RelOff   uint32
	CompSize uint32
}

// packedEntry pairs a resolved entry with its compressed payload while
// an archive is being assembled.
type packedEntry struct {
	name string
	fmt1 uint16
	fmt2 uint16
	comp []byte
}

// parseArchive splits a raw archive blob into its TOC entries and the
// payload data section that follows the TOC.
func parseArchive(blob []byte) ([]Entry, []byte, error) {
	if len(blob) < CountSize {
		return nil, nil, fmt.Errorf("%w: %d bytes", ErrTruncatedHeader, len(blob))
	}
	count := binary.BigEndian.Uint32(blob)

	// 64-bit math so a hostile count cannot wrap the TOC length.
	tocLen := CountSize + int64(count)*EntrySize
	if int64(len(blob)) < tocLen {
		return nil, nil, fmt.Errorf("%w: %d entries need %d bytes, have %d",
			ErrTruncatedTOC, count, tocLen, len(blob))
	}

	r := bytes.NewReader(blob[CountSize:tocLen])
	entries := make([]Entry, count)
	for i := range entries {
		var rec tocRecord
		if err := binary.Read(r, binary.BigEndian, &rec); err != nil {
			return nil, nil, fmt.Errorf("read TOC entry %d: %w", i, err)
		}
		entries[i] = Entry{
			Name:           nameString(rec.Name),
			Fmt1:           rec.Fmt1,
			Fmt2:           rec.Fmt2,
			RelativeOffset: rec.RelOff,
			CompressedSize: rec.CompSize,
		}
	}
	return entries, blob[tocLen:], nil
}

// serializeArchive assembles a complete archive blob: entry count, TOC
// records, then the payloads back to back. Relative offsets are always
// recomputed as the running sum of prior payload sizes, never taken from
// the caller.
func serializeArchive(entries []packedEntry) ([]byte, error) {
	size := CountSize + len(entries)*EntrySize
	for _, e := range entries {
		size += len(e.comp)
	}

	buf := bytes.NewBuffer(make([]byte, 0, size))
	if err := binary.Write(buf, binary.BigEndian, uint32(len(entries))); err != nil {
		return nil, fmt.Errorf("write entry count: %w", err)
	}

	rel := uint32(0)
	for _, e := range entries {
		name, err := packName(e.name)
		if err != nil {
			return nil, err
		}
		rec := tocRecord{
			Name:     name,
			Fmt1:     e.fmt1,
			Fmt2:     e.fmt2,
			RelOff:   rel,
			CompSize: uint32(len(e.comp)),
		}
		if err := binary.Write(buf, binary.BigEndian, &rec); err != nil {
			return nil, fmt.Errorf("write TOC entry %q: %w", e.name, err)
		}
		rel += uint32(len(e.comp))
	}

	for _, e := range entries {
		buf.Write(e.comp)
	}
	return buf.Bytes(), nil
}

// nameString decodes an on-disk name field: truncated at the first NUL,
// non-ASCII bytes dropped.
func nameString(raw [NameLen]byte) string {
	field := raw[:]
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}

	name := make([]byte, 0, len(field))
	for _, c := range field {
		if c <= 0x7F {
			name = append(name, c)
		}
	}
	return string(name)
}

// packName converts a name to its on-disk form. Non-ASCII bytes are
// dropped; what remains must fit the 20-byte field and is NUL-padded.
func packName(name string) ([NameLen]byte, error) {
	var out [NameLen]byte
	n := 0
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c > 0x7F {
			continue
		}
		if n == NameLen {
			return out, fmt.Errorf("%w: %q", ErrNameTooLong, name)
		}
		out[n] = c
		n++
	}
	return out, nil
}
