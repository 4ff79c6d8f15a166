// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package bmpdata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Archive represents a BMPDATA container. An archive is opened either
// for reading (Open, Parse) or for writing (Create, CreateWithTemplate);
// the two modes expose disjoint method sets.
type Archive struct {
	path     string
	tempPath string
	mode     string // "r" for read, "w" for write
	entries  []Entry
	data     []byte
	pending  []pendingFile
	template Template
	strict   bool
}

// pendingFile represents a file queued for packing.
type pendingFile struct {
	name string
	data []byte
}

// Create creates a new archive at path. Files are packed in ascending
// name order when the archive is closed.
func Create(path string) (*Archive, error) {
	return CreateWithTemplate(path, nil, false)
}

// CreateWithTemplate creates a new archive whose entry order and format
// words follow tmpl, typically an archive opened with Open. Queued files
// the template does not name are omitted. Template names with no queued
// file are omitted too, unless strict is set, in which case Close fails
// and reports every missing name.
func CreateWithTemplate(path string, tmpl Template, strict bool) (*Archive, error) {
	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	// Create temp file in same directory for atomic write
	dir := filepath.Dir(path)
	tempFile, err := os.CreateTemp(dir, "bmpdata_*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	tempFile.Close()

	return &Archive{
		path:     path,
		tempPath: tempPath,
		mode:     "w",
		template: tmpl,
		strict:   strict,
	}, nil
}

// Open opens an existing archive for reading. The whole file is read
// into memory; archives are small enough that this is never a concern.
func Open(path string) (*Archive, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	a, err := Parse(blob)
	if err != nil {
		return nil, err
	}
	a.path = path
	return a, nil
}

// Parse opens an archive held in memory for reading. The blob is
// retained and must not be modified afterwards.
func Parse(blob []byte) (*Archive, error) {
	entries, data, err := parseArchive(blob)
	if err != nil {
		return nil, err
	}

	return &Archive{
		mode:    "r",
		entries: entries,
		data:    data,
	}, nil
}

// Add queues data for packing under the given name. Names use forward
// slashes for subdirectories and are stored as given.
// This method is only valid for archives opened with Create.
func (a *Archive) Add(name string, data []byte) error {
	if a.mode != "w" {
		return fmt.Errorf("archive not opened for writing")
	}

	a.pending = append(a.pending, pendingFile{name: name, data: data})
	return nil
}

// AddFile queues the file at srcPath for packing under the given name.
// This method is only valid for archives opened with Create.
func (a *Archive) AddFile(srcPath, name string) error {
	if a.mode != "w" {
		return fmt.Errorf("archive not opened for writing")
	}

	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("read file %s: %w", srcPath, err)
	}

	return a.Add(name, data)
}

// Entries returns the archive's table of contents in file order.
// The returned slice is shared and must not be modified.
func (a *Archive) Entries() []Entry {
	return a.entries
}

// HasFile returns true if the archive contains the named entry. In
// write mode it reports on files queued so far.
func (a *Archive) HasFile(name string) bool {
	if a.mode == "w" {
		for _, f := range a.pending {
			if f.name == name {
				return true
			}
		}
		return false
	}

	for _, e := range a.entries {
		if e.Name == name {
			return true
		}
	}
	return false
}

// ReadEntry decompresses and returns the payload of entry i in Entries
// order. Each entry's offset and size are checked against the data
// section on their own, so one corrupt record cannot read past it.
// This method is only valid for archives opened with Open or Parse.
func (a *Archive) ReadEntry(i int) ([]byte, error) {
	if a.mode != "r" {
		return nil, fmt.Errorf("archive not opened for reading")
	}
	if i < 0 || i >= len(a.entries) {
		return nil, fmt.Errorf("entry %d out of range (%d entries)", i, len(a.entries))
	}
	e := a.entries[i]

	off := int64(e.RelativeOffset)
	end := off + int64(e.CompressedSize)
	if end > int64(len(a.data)) {
		return nil, fmt.Errorf("entry %s: payload [%d:%d] outside data section of %d bytes",
			e.Name, off, end, len(a.data))
	}

	data, err := decompressPayload(a.data[off:end])
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", e.Name, err)
	}
	return data, nil
}

// ReadFile decompresses and returns the payload of the first entry
// named name.
// This method is only valid for archives opened with Open or Parse.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	if a.mode != "r" {
		return nil, fmt.Errorf("archive not opened for reading")
	}

	for i, e := range a.entries {
		if e.Name == name {
			return a.ReadEntry(i)
		}
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

// ReadAll decompresses every entry and returns the payloads in Entries
// order. Entries are decoded in parallel.
// This method is only valid for archives opened with Open or Parse.
func (a *Archive) ReadAll() ([][]byte, error) {
	if a.mode != "r" {
		return nil, fmt.Errorf("archive not opened for reading")
	}

	out := make([][]byte, len(a.entries))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range a.entries {
		i := i
		g.Go(func() error {
			data, err := a.ReadEntry(i)
			if err != nil {
				return err
			}
			out[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ExtractFile extracts the named entry to destPath, creating parent
// directories as needed.
// This method is only valid for archives opened with Open or Parse.
func (a *Archive) ExtractFile(name, destPath string) error {
	data, err := a.ReadFile(name)
	if err != nil {
		return err
	}

	// Ensure destination directory exists
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// ExtractAll extracts every entry under destDir, mapping forward
// slashes in entry names to subdirectories.
// This method is only valid for archives opened with Open or Parse.
func (a *Archive) ExtractAll(destDir string) error {
	files, err := a.ReadAll()
	if err != nil {
		return err
	}

	for i, e := range a.entries {
		destPath := filepath.Join(destDir, filepath.FromSlash(e.Name))
		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
		if err := os.WriteFile(destPath, files[i], 0644); err != nil {
			return fmt.Errorf("write %s: %w", e.Name, err)
		}
	}

	return nil
}

// Close closes the archive.
// For archives opened with Create, this writes the archive to disk.
func (a *Archive) Close() error {
	if a.mode == "r" {
		return nil
	}

	// Write mode
	if err := a.writeArchive(); err != nil {
		os.Remove(a.tempPath)
		return err
	}

	// Move temp file to final path
	os.Remove(a.path)
	if err := os.Rename(a.tempPath, a.path); err != nil {
		if err := copyFile(a.tempPath, a.path); err != nil {
			os.Remove(a.tempPath)
			return fmt.Errorf("save archive: %w", err)
		}
		os.Remove(a.tempPath)
	}

	return nil
}

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
