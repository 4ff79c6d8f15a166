// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package bmpdata

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// writeArchive writes the complete archive to the temp file.
func (a *Archive) writeArchive() error {
	if len(a.pending) == 0 {
		return ErrNoInputFiles
	}

	ordered, err := a.orderFiles()
	if err != nil {
		return err
	}

	// Compress payloads and derive format words in parallel
	packed := make([]packedEntry, len(ordered))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range ordered {
		i, f := i, f
		g.Go(func() error {
			fmt1, fmt2, err := deriveFormatWords(f.name, f.data, a.template)
			if err != nil {
				return err
			}
			packed[i] = packedEntry{
				name: f.name,
				fmt1: fmt1,
				fmt2: fmt2,
				comp: compressPayload(f.data),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	blob, err := serializeArchive(packed)
	if err != nil {
		return err
	}

	file, err := os.Create(a.tempPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(blob); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}

	return nil
}

// orderFiles arranges the queued files for packing. Without a template
// they are sorted by name; with one they follow the template's order,
// keeping only names the template knows. Missing template names are
// skipped, or reported all at once when the archive is strict.
func (a *Archive) orderFiles() ([]pendingFile, error) {
	if a.template == nil {
		ordered := make([]pendingFile, len(a.pending))
		copy(ordered, a.pending)
		sort.Slice(ordered, func(i, j int) bool {
			return ordered[i].name < ordered[j].name
		})
		return ordered, nil
	}

	// Later queued files win on duplicate names
	byName := make(map[string]pendingFile, len(a.pending))
	for _, f := range a.pending {
		byName[f.name] = f
	}

	var ordered []pendingFile
	var missing []string
	for _, name := range a.template.Names() {
		f, ok := byName[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		ordered = append(ordered, f)
	}

	if len(missing) > 0 && a.strict {
		return nil, fmt.Errorf("%w: %s", ErrMissingTemplateEntries, strings.Join(missing, ", "))
	}
	return ordered, nil
}
