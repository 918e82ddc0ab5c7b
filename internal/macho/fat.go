// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package macho

import (
	gomacho "debug/macho"
	"encoding/binary"
	"fmt"
)

const (
	fatHeaderSize     = 8
	fatArchSize       = 20
	fatArch64Size     = 32
	fatMaxArchEntries = 64
)

var _ Binary = (*FatFile)(nil)

// FatFile is a fat (universal) file bundling multiple architecture slices.
//
// Only the first slice is parsed. All other accessors refer to it.
type FatFile struct {
	*File

	slices []Slice
}

// Slices implements [Binary]. It returns all slices of the fat file, the
// chosen one first.
func (f *FatFile) Slices() []Slice {
	return f.slices
}

// parseFat parses the fat header and the first architecture slice. Both the
// classic and the 64 bit fat header variants are supported.
func parseFat(data []byte, magic uint32) (*FatFile, error) {
	if len(data) < fatHeaderSize {
		return nil, fmt.Errorf("%w: fat header truncated", ErrMalformed)
	}

	// Fat headers are always big endian.
	order := binary.BigEndian
	count := order.Uint32(data[4:fatHeaderSize])

	if count == 0 {
		return nil, ErrNoArchitecture
	}

	entrySize := fatArchSize
	if magic == magicFat64 {
		entrySize = fatArch64Size
	}

	// Java class files share the fat magic number. Their version field is
	// way above any sane number of architectures.
	if count > fatMaxArchEntries {
		return nil, &FormatError{Format: FormatUnknown, Magic: magic}
	}

	if len(data) < fatHeaderSize+int(count)*entrySize {
		return nil, fmt.Errorf(
			"%w: fat header with %d entries truncated", ErrMalformed, count)
	}

	slices := make([]Slice, 0, count)

	for idx := range int(count) {
		entry := data[fatHeaderSize+idx*entrySize:]
		slice := Slice{
			CPU:    gomacho.Cpu(order.Uint32(entry[0:4])),
			SubCPU: order.Uint32(entry[4:8]),
		}

		if magic == magicFat64 {
			slice.Offset = order.Uint64(entry[8:16])
			slice.Size = order.Uint64(entry[16:24])
		} else {
			slice.Offset = uint64(order.Uint32(entry[8:12]))
			slice.Size = uint64(order.Uint32(entry[12:16]))
		}

		slices = append(slices, slice)
	}

	first := slices[0]
	if first.Offset > uint64(len(data)) ||
		first.Size > uint64(len(data))-first.Offset {
		return nil, fmt.Errorf(
			"%w: slice %s out of file bounds", ErrMalformed, first)
	}

	file, err := parseFile(data[first.Offset:first.Offset+first.Size], first)
	if err != nil {
		return nil, fmt.Errorf("slice %s: %w", first.CPU, err)
	}

	file.slice.Offset = first.Offset
	slices[0] = file.slice

	return &FatFile{
		File:   file,
		slices: slices,
	}, nil
}
