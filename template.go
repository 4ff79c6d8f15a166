// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package bmpdata

// Template supplies entry ordering and format words from an existing
// archive so that a rebuilt archive matches the original layout. An
// *Archive opened for reading satisfies this interface, but any
// implementation works, e.g. a fixed list loaded from a manifest.
type Template interface {
	// Names returns entry names in table-of-contents order.
	Names() []string

	// FormatWords reports the descriptor words recorded for name. The
	// boolean is false when the template has no entry by that name.
	FormatWords(name string) (fmt1, fmt2 uint16, ok bool)
}

// Names returns the archive's entry names in table-of-contents order.
func (a *Archive) Names() []string {
	names := make([]string, len(a.entries))
	for i, e := range a.entries {
		names[i] = e.Name
	}
	return names
}

// FormatWords reports the descriptor words of the first entry named
// name, or ok=false if the archive has no such entry.
func (a *Archive) FormatWords(name string) (uint16, uint16, bool) {
	for _, e := range a.entries {
		if e.Name == name {
			return e.Fmt1, e.Fmt2, true
		}
	}
	return 0, 0, false
}
