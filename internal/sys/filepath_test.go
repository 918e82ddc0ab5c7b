// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/aibor/dyldtree/internal/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	tests := []struct {
		name      string
		path      string
		expected  string
		assertErr require.ErrorAssertionFunc
	}{
		{
			name:      "absolute",
			path:      "/usr/lib/libSystem.B.dylib",
			expected:  "/usr/lib/libSystem.B.dylib",
			assertErr: require.NoError,
		},
		{
			name:      "relative",
			path:      "bin/MyApp",
			expected:  filepath.Join(dir, "bin/MyApp"),
			assertErr: require.NoError,
		},
		{
			name:      "cleaned",
			path:      "/app/bin/../lib",
			expected:  "/app/lib",
			assertErr: require.NoError,
		},
		{
			name: "empty",
			assertErr: func(t require.TestingT, err error, _ ...any) {
				require.ErrorIs(t, err, sys.ErrEmptyPath)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := sys.AbsolutePath(tt.path)
			tt.assertErr(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestFilePath_Set(t *testing.T) {
	var path sys.FilePath

	require.NoError(t, path.Set("/var/cache/../db"))
	assert.Equal(t, "/var/db", path.String())

	require.ErrorIs(t, path.Set(""), sys.ErrEmptyPath)
	assert.Equal(t, "/var/db", path.String(), "must not change on error")
}

func TestFileChecks(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	link := filepath.Join(dir, "link")
	missing := filepath.Join(dir, "missing")

	require.NoError(t, os.WriteFile(file, nil, 0o600))
	require.NoError(t, os.Symlink(file, link))

	t.Run("regular file", func(t *testing.T) {
		require.NoError(t, sys.CheckRegularFile(file))
		require.NoError(t, sys.CheckRegularFile(link))
		require.ErrorIs(t, sys.CheckRegularFile(dir), sys.ErrNotRegularFile)
		require.ErrorIs(t, sys.CheckRegularFile(missing), fs.ErrNotExist)
	})

	t.Run("directory", func(t *testing.T) {
		isDir, err := sys.IsDirectory(dir)
		require.NoError(t, err)
		assert.True(t, isDir)

		isDir, err = sys.IsDirectory(link)
		require.NoError(t, err)
		assert.False(t, isDir)

		_, err = sys.IsDirectory(missing)
		require.ErrorIs(t, err, fs.ErrNotExist)
	})
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "usr/lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "usr/lib/libA.dylib"), nil, 0o600))
	require.NoError(t, os.Symlink("libA.dylib", filepath.Join(dir, "usr/lib/libB.dylib")))

	assert.Equal(t, []string{"usr/lib/libA.dylib"}, sys.ListFiles(t, dir))
}
