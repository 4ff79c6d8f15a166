// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

/*
Package bmpdata provides pure Go support for reading and writing
BMPDATA.BIN image archives.

BMPDATA.BIN is the bitmap container used by the game's asset pipeline.
It stores BMP and TGA images under a big-endian table of contents and
compresses each payload with a 12-bit LZW variant. This package decodes
and re-encodes both the container and the compression byte for byte, so
a repacked archive is accepted by the game.

# Features

  - Read and write BMPDATA.BIN archives
  - 12-bit LZW compression matching the game's decoder
  - Rebuild an archive in the exact layout of an existing one
  - Parallel decompression of archive entries

# Basic Usage

Creating an archive:

	archive, err := bmpdata.Create("BMPDATA.BIN")
	if err != nil {
		log.Fatal(err)
	}

	err = archive.AddFile("local/TITLE.BMP", "TITLE.BMP")
	if err != nil {
		log.Fatal(err)
	}

	if err := archive.Close(); err != nil {
		log.Fatal(err)
	}

Reading an archive:

	archive, err := bmpdata.Open("BMPDATA.BIN")
	if err != nil {
		log.Fatal(err)
	}

	if archive.HasFile("TITLE.BMP") {
		err = archive.ExtractFile("TITLE.BMP", "output/TITLE.BMP")
		if err != nil {
			log.Fatal(err)
		}
	}

# Templates

A repacked archive usually has to match the original's entry order and
format words. Open the original and pass it to [CreateWithTemplate]:

	original, err := bmpdata.Open("BMPDATA.BIN.bak")
	if err != nil {
		log.Fatal(err)
	}

	archive, err := bmpdata.CreateWithTemplate("BMPDATA.BIN", original, true)

With strict set, Close fails if any template entry has no queued file.
Without it, missing entries are silently omitted and the entry count
shrinks accordingly.

# Archive Format

An archive is a 4-byte big-endian entry count, count 32-byte records,
then the concatenated compressed payloads:

	name    [20]byte   NUL-padded ASCII, forward slashes for subdirs
	fmt1    uint16     format word (image dimensions or size, by type)
	fmt2    uint16
	offset  uint32     payload offset relative to the end of the TOC
	size    uint32     compressed payload size in bytes

# Path Conventions

Entry names use forward slash (/) as the path separator and are stored
exactly as given. Extraction maps separators to the host convention.

# Limitations

  - Entry names are limited to 20 ASCII bytes; non-ASCII bytes are dropped
  - Archives are held fully in memory while open
*/
package bmpdata
