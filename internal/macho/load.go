// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package macho

// Load parses the given file content.
//
// Thin files are parsed directly. For fat files the first architecture slice
// is parsed and [ErrNoArchitecture] is returned if there is none. Any other
// format results in a [FormatError].
func Load(data []byte) (Binary, error) {
	format, magic := DetectFormat(data)

	switch format {
	case FormatMachO:
		file, err := parseFile(data, Slice{})
		if err != nil {
			return nil, err
		}

		return file, nil
	case FormatFat:
		fatFile, err := parseFat(data, magic)
		if err != nil {
			return nil, err
		}

		return fatFile, nil
	default:
		return nil, &FormatError{
			Format: format,
			Magic:  magic,
		}
	}
}
