// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"bytes"
	"io"
	"testing"

	"github.com/aibor/dyldtree/internal/dyld"
	"github.com/aibor/dyldtree/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	absLibs, err := sys.AbsolutePath("libs")
	require.NoError(t, err)

	tests := []struct {
		name          string
		args          []string
		expectedFlags *flags
		expectedErr   error
	}{
		{
			name:        "help",
			args:        []string{"-help"},
			expectedErr: ErrHelp,
		},
		{
			name: "version",
			args: []string{"-version"},
			expectedFlags: &flags{
				Depth:   dyld.UnlimitedDepth,
				Version: true,
			},
		},
		{
			name:        "no binary",
			args:        []string{"-depth=1"},
			expectedErr: &ParseArgsError{},
		},
		{
			name:        "empty binary",
			args:        []string{""},
			expectedErr: sys.ErrEmptyPath,
		},
		{
			name:        "too many binaries",
			args:        []string{"MyApp", "libA.dylib"},
			expectedErr: &ParseArgsError{},
		},
		{
			name:        "unknown flag",
			args:        []string{"-recursive", "MyApp"},
			expectedErr: &ParseArgsError{},
		},
		{
			name:        "negative depth",
			args:        []string{"-depth=-1", "MyApp"},
			expectedErr: &ParseArgsError{},
		},
		{
			name: "defaults",
			args: []string{"MyApp"},
			expectedFlags: &flags{
				BinaryPath: "MyApp",
				Depth:      dyld.UnlimitedDepth,
			},
		},
		{
			name: "all flags",
			args: []string{
				"-depth", "3",
				"-ignorePrefix=/opt/",
				"-ignorePrefix", "@rpath/libQt",
				"-excludeAllDuplicates",
				"-includeSystemDependencies",
				"-sharedCachePath=/tmp/libs/../cache",
				"-verbose",
				"/Applications/MyApp.app/Contents/MacOS/MyApp",
			},
			expectedFlags: &flags{
				BinaryPath:                "/Applications/MyApp.app/Contents/MacOS/MyApp",
				Depth:                     3,
				IgnorePrefixes:            []string{"/opt/", "@rpath/libQt"},
				ExcludeAllDuplicates:      true,
				IncludeSystemDependencies: true,
				SharedCachePath:           "/tmp/cache",
				Verbose:                   true,
			},
		},
		{
			name: "later depth wins",
			args: []string{"-depth=0", "-depth=unlimited", "-depth=2", "MyApp"},
			expectedFlags: &flags{
				BinaryPath: "MyApp",
				Depth:      2,
			},
		},
		{
			name: "empty ignore prefix resets list",
			args: []string{
				"-ignorePrefix=/opt/",
				"-ignorePrefix=",
				"-ignorePrefix=/usr/local/",
				"MyApp",
			},
			expectedFlags: &flags{
				BinaryPath:     "MyApp",
				Depth:          dyld.UnlimitedDepth,
				IgnorePrefixes: []string{"/usr/local/"},
			},
		},
		{
			name: "relative shared cache path",
			args: []string{"-sharedCachePath=libs", "MyApp"},
			expectedFlags: &flags{
				BinaryPath:      "MyApp",
				Depth:           dyld.UnlimitedDepth,
				SharedCachePath: absLibs,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := parseArgs(tt.args, io.Discard)
			require.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expectedFlags, actual)
		})
	}
}

func TestParseArgs_Usage(t *testing.T) {
	var output bytes.Buffer

	_, err := parseArgs([]string{}, &output)
	require.ErrorIs(t, err, &ParseArgsError{})

	assert.Contains(t, output.String(), "no binary given\nUsage of 'dyldtree':")
	assert.Contains(t, output.String(), "-includeSystemDependencies")
	assert.Contains(t, output.String(), "-sharedCachePath")
}

func TestFlags_WalkerConfig(t *testing.T) {
	cfg := flags{
		BinaryPath:                "MyApp",
		Depth:                     4,
		IgnorePrefixes:            []string{"/opt/"},
		ExcludeAllDuplicates:      true,
		IncludeSystemDependencies: true,
		SharedCachePath:           "/tmp/libs",
	}

	expected := dyld.Config{
		MaxDepth:                  4,
		IgnorePrefixes:            []string{"/opt/"},
		IncludeSystemDependencies: true,
		ExcludeAllDuplicates:      true,
	}

	assert.Equal(t, expected, cfg.walkerConfig())
}

func TestDepthValue(t *testing.T) {
	depth := 7
	value := &depthValue{&depth}

	assert.Equal(t, "7", value.String())

	require.NoError(t, value.Set("unlimited"))
	assert.Equal(t, dyld.UnlimitedDepth, depth)
	assert.Equal(t, "unlimited", value.String())

	require.NoError(t, value.Set("0"))
	assert.Equal(t, 0, depth)

	require.ErrorIs(t, value.Set("18446744073709551615"), ErrValueOutOfRange)
	assert.Equal(t, 0, depth)

	assert.Equal(t, "unlimited", (&depthValue{}).String())
}
