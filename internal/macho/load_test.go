// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package macho_test

import (
	gomacho "debug/macho"
	"testing"

	"github.com/aibor/dyldtree/internal/macho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	image := macho.TestImage{
		ID: "@rpath/libFoo.dylib",
		Dylibs: []string{
			"/usr/lib/libSystem.B.dylib",
			"@rpath/libBar.dylib",
		},
		Rpaths: []string{
			"@loader_path/../lib",
			"/opt/lib",
		},
		Platform: macho.PlatformIOS,
	}

	binary, err := macho.Load(image.Bytes())
	require.NoError(t, err)

	assert.Equal(t, image.Dylibs, binary.DependencyReferences())
	assert.Equal(t, image.Rpaths, binary.SearchPaths())
	assert.Equal(t, "@rpath/libFoo.dylib", binary.ID())

	platform, ok := binary.Platform()
	assert.True(t, ok, "platform should be present")
	assert.Equal(t, macho.PlatformIOS, platform)

	require.Len(t, binary.Slices(), 1)
	assert.Equal(t, gomacho.CpuArm64, binary.Slices()[0].CPU)
}

func TestLoad_NoDependencies(t *testing.T) {
	binary, err := macho.Load(macho.TestImage{}.Bytes())
	require.NoError(t, err)

	assert.Empty(t, binary.DependencyReferences())
	assert.Empty(t, binary.SearchPaths())
	assert.Empty(t, binary.ID())

	_, ok := binary.Platform()
	assert.False(t, ok, "platform should not be present")
}

func TestLoad_Fat(t *testing.T) {
	first := macho.TestImage{
		CPU:    gomacho.CpuAmd64,
		Dylibs: []string{"@rpath/libAmd64.dylib"},
	}
	second := macho.TestImage{
		CPU:    gomacho.CpuArm64,
		Dylibs: []string{"@rpath/libArm64.dylib"},
	}

	binary, err := macho.Load(macho.TestFat(first.Bytes(), second.Bytes()))
	require.NoError(t, err)

	assert.IsType(t, &macho.FatFile{}, binary)
	assert.Equal(t, []string{"@rpath/libAmd64.dylib"},
		binary.DependencyReferences(),
		"first slice should be chosen")

	slices := binary.Slices()
	require.Len(t, slices, 2)
	assert.Equal(t, gomacho.CpuAmd64, slices[0].CPU)
	assert.Equal(t, gomacho.CpuArm64, slices[1].CPU)
	assert.NotZero(t, slices[0].Offset)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		expectedErr error
		expectedMsg string
	}{
		{
			name:        "fat without architectures",
			data:        macho.TestFat(),
			expectedErr: macho.ErrNoArchitecture,
		},
		{
			name:        "archive",
			data:        []byte("!<arch>\nfoo.o/          "),
			expectedErr: macho.ErrUnsupportedFormat,
			expectedMsg: "archives are not currently supported",
		},
		{
			name:        "elf",
			data:        []byte("\x7fELF\x02\x01\x01\x00"),
			expectedErr: macho.ErrUnsupportedFormat,
			expectedMsg: "use lddtree instead",
		},
		{
			name:        "pe",
			data:        []byte("MZ\x90\x00\x03\x00"),
			expectedErr: macho.ErrUnsupportedFormat,
			expectedMsg: "PE binaries are not currently supported",
		},
		{
			name:        "unknown magic",
			data:        []byte{0xde, 0xad, 0xbe, 0xef, 0x00},
			expectedErr: macho.ErrUnsupportedFormat,
			expectedMsg: "unknown file magic: 0xdeadbeef",
		},
		{
			name:        "empty",
			data:        []byte{},
			expectedErr: &macho.FormatError{},
		},
		{
			name:        "truncated thin file",
			data:        macho.TestImage{Dylibs: []string{"a"}}.Bytes()[:40],
			expectedErr: macho.ErrMalformed,
		},
		{
			name:        "java class file",
			data:        []byte{0xca, 0xfe, 0xba, 0xbe, 0x00, 0x00, 0x00, 0x41},
			expectedErr: macho.ErrUnsupportedFormat,
			expectedMsg: "unknown file magic: 0xcafebabe",
		},
		{
			name:        "truncated fat header",
			data:        []byte{0xca, 0xfe, 0xba, 0xbe, 0x00, 0x00, 0x00, 0x02},
			expectedErr: macho.ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := macho.Load(tt.data)
			require.ErrorIs(t, err, tt.expectedErr)

			if tt.expectedMsg != "" {
				assert.ErrorContains(t, err, tt.expectedMsg)
			}
		})
	}
}
