// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"io/fs"
	"path/filepath"
	"testing"
)

// ListFiles returns the paths of all regular files below dir, relative to
// dir.
func ListFiles(tb testing.TB, dir string) []string {
	tb.Helper()

	var files []string

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !entry.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err //nolint:wrapcheck
		}

		files = append(files, rel)

		return nil
	})
	if err != nil {
		tb.Fatalf("failed to list files in %s: %v", dir, err)
	}

	return files
}
