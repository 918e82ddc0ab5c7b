// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package macho_test

import (
	"testing"

	"github.com/aibor/dyldtree/internal/macho"
	"github.com/stretchr/testify/assert"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected macho.Format
	}{
		{
			name:     "64 bit little endian",
			data:     []byte{0xcf, 0xfa, 0xed, 0xfe},
			expected: macho.FormatMachO,
		},
		{
			name:     "32 bit big endian",
			data:     []byte{0xfe, 0xed, 0xfa, 0xce},
			expected: macho.FormatMachO,
		},
		{
			name:     "fat",
			data:     []byte{0xca, 0xfe, 0xba, 0xbe},
			expected: macho.FormatFat,
		},
		{
			name:     "fat 64",
			data:     []byte{0xca, 0xfe, 0xba, 0xbf},
			expected: macho.FormatFat,
		},
		{
			name:     "archive",
			data:     []byte("!<arch>\n"),
			expected: macho.FormatArchive,
		},
		{
			name:     "elf",
			data:     []byte("\x7fELF"),
			expected: macho.FormatELF,
		},
		{
			name:     "pe",
			data:     []byte("MZ\x00\x00"),
			expected: macho.FormatPE,
		},
		{
			name:     "too short",
			data:     []byte("MZ"),
			expected: macho.FormatUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, _ := macho.DetectFormat(tt.data)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestPlatform_String(t *testing.T) {
	assert.Equal(t, "macOS", macho.PlatformMacOS.String())
	assert.Equal(t, "macCatalyst", macho.PlatformMacCatalyst.String())
	assert.Equal(t, "platform(99)", macho.Platform(99).String())
}
