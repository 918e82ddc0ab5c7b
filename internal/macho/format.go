// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package macho

import (
	"bytes"
	"encoding/binary"
)

// Format is the object file format detected by the file's magic number.
type Format int

// Detectable formats.
const (
	FormatUnknown Format = iota
	FormatMachO
	FormatFat
	FormatArchive
	FormatELF
	FormatPE
)

func (f Format) String() string {
	switch f {
	case FormatMachO:
		return "Mach-O"
	case FormatFat:
		return "fat Mach-O"
	case FormatArchive:
		return "archive"
	case FormatELF:
		return "ELF"
	case FormatPE:
		return "PE"
	default:
		return "unknown"
	}
}

// Magic numbers as read in big endian byte order.
const (
	magic32      uint32 = 0xfeedface
	magic64      uint32 = 0xfeedfacf
	cigam32      uint32 = 0xcefaedfe
	cigam64      uint32 = 0xcffaedfe
	magicFat     uint32 = 0xcafebabe
	magicFat64   uint32 = 0xcafebabf
	archiveMagic        = "!<arch>\n"
	elfMagic            = "\x7fELF"
	peMagic             = "MZ"
)

// DetectFormat returns the format of the given file content and the magic
// number it was detected by.
func DetectFormat(data []byte) (Format, uint32) {
	var head [4]byte

	copy(head[:], data)
	magic := binary.BigEndian.Uint32(head[:])

	switch {
	case len(data) < len(head):
		return FormatUnknown, magic
	case magic == magic32, magic == magic64,
		magic == cigam32, magic == cigam64:
		return FormatMachO, magic
	case magic == magicFat, magic == magicFat64:
		return FormatFat, magic
	case bytes.HasPrefix(data, []byte(archiveMagic)):
		return FormatArchive, magic
	case bytes.HasPrefix(data, []byte(elfMagic)):
		return FormatELF, magic
	case bytes.HasPrefix(data, []byte(peMagic)):
		return FormatPE, magic
	default:
		return FormatUnknown, magic
	}
}
