// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"fmt"
	"os"
	"path/filepath"
)

// AbsolutePath returns the absolute path as resolved by [filepath.Abs].
//
// It returns [ErrEmptyPath] if the given path is empty.
func AbsolutePath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("absolute path: %w", err)
	}

	return path, nil
}

// FilePath is an absolute file path. It implements [flag.Value].
type FilePath string

func (f *FilePath) String() string {
	return string(*f)
}

// Set sets the absolute path of the given path.
func (f *FilePath) Set(value string) error {
	path, err := AbsolutePath(value)
	if err != nil {
		return err
	}

	*f = FilePath(path)

	return nil
}

// IsDirectory reports whether the path is a directory. Symbolic links are
// followed.
func IsDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat: %w", err)
	}

	return info.IsDir(), nil
}

// CheckRegularFile returns [ErrNotRegularFile] if the path does not point to a
// regular file. Symbolic links are followed.
func CheckRegularFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	if !info.Mode().IsRegular() {
		return ErrNotRegularFile
	}

	return nil
}
