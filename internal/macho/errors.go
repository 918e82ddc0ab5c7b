// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package macho

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned if the file is not a Mach-O file.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrNoArchitecture is returned if a fat file has no architecture slices.
	ErrNoArchitecture = errors.New(
		"no architectures found in fat binary, please file an issue if " +
			"this is a valid Mach-O file",
	)

	// ErrMalformed is returned if the file looks like a Mach-O file but can
	// not be parsed.
	ErrMalformed = errors.New("malformed Mach-O file")
)

// FormatError is returned for files of a known but unsupported format and
// for files with an unknown magic number.
type FormatError struct {
	Format Format
	Magic  uint32
}

func (e *FormatError) Error() string {
	switch e.Format {
	case FormatArchive:
		return "archives are not currently supported"
	case FormatELF:
		return "ELF binaries are not currently supported, use lddtree instead"
	case FormatPE:
		return "PE binaries are not currently supported"
	default:
		return fmt.Sprintf(
			"unknown file magic: %#x, please file an issue if this is a "+
				"Mach-O file",
			e.Magic,
		)
	}
}

// Is matches [ErrUnsupportedFormat] and any other [FormatError].
func (e *FormatError) Is(other error) bool {
	if other == ErrUnsupportedFormat { //nolint:errorlint
		return true
	}

	_, ok := other.(*FormatError)

	return ok
}
