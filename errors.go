// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package bmpdata

import "errors"

// Sentinel errors returned by archive parsing and building. Call sites
// wrap them with entry names or sizes; match with errors.Is.
var (
	// ErrTruncatedHeader is returned when a blob is too short to hold
	// the 4-byte entry count.
	ErrTruncatedHeader = errors.New("bmpdata: file too small for header")

	// ErrTruncatedTOC is returned when a blob ends before the table of
	// contents its entry count announces.
	ErrTruncatedTOC = errors.New("bmpdata: file too small for TOC")

	// ErrNameTooLong is returned when an entry name exceeds 20 ASCII
	// bytes at serialization time.
	ErrNameTooLong = errors.New("bmpdata: entry name exceeds 20 bytes")

	// ErrPayloadTooSmall is returned when a payload is too short to
	// derive format words from (a TGA shorter than its 16-byte header).
	ErrPayloadTooSmall = errors.New("bmpdata: payload too small for format words")

	// ErrMissingTemplateEntries is returned by a strict build when the
	// template names entries the inputs do not provide. The message
	// lists every missing name.
	ErrMissingTemplateEntries = errors.New("bmpdata: template entries missing from inputs")

	// ErrNoInputFiles is returned by a build with no files added.
	ErrNoInputFiles = errors.New("bmpdata: no input files")
)
