// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package macho

import (
	gomacho "debug/macho"
	"fmt"
)

// Binary is the dynamic linking view of a loaded file.
//
// Thin and fat files both implement it. For fat files all accessors except
// [Binary.Slices] refer to the chosen slice.
type Binary interface {
	// DependencyReferences returns the referenced dynamic libraries in load
	// command order.
	DependencyReferences() []string
	// SearchPaths returns the LC_RPATH entries in load command order.
	SearchPaths() []string
	// ID returns the install name of a dynamic library. It is empty for
	// executables.
	ID() string
	// Slices returns the architecture slices of the file. The chosen slice
	// is always the first one.
	Slices() []Slice
	// Platform returns the build platform if the file records one.
	Platform() (Platform, bool)
}

// Slice describes one architecture slice.
type Slice struct {
	CPU    gomacho.Cpu
	SubCPU uint32
	Offset uint64
	Size   uint64
}

func (s Slice) String() string {
	return fmt.Sprintf("%s (offset %d, size %d)", s.CPU, s.Offset, s.Size)
}
