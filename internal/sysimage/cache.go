// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysimage

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/zeebo/xxh3"
)

const cacheDirPerm = 0o755

// cachePath returns the directory the given source file is extracted to.
//
// The name is derived from path, size and modification time of the source,
// so a changed file is extracted again.
func cachePath(cacheDir, source string) (string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return "", fmt.Errorf("stat: %w", err)
	}

	hasher := xxh3.New()
	_, _ = hasher.WriteString(source)
	_ = binary.Write(hasher, binary.LittleEndian, info.Size())
	_ = binary.Write(hasher, binary.LittleEndian, info.ModTime().UnixNano())

	name := fmt.Sprintf("%s-%016x", filepath.Base(source), hasher.Sum64())

	return filepath.Join(cacheDir, name), nil
}

// populate creates the target directory by calling fill with a temporary
// directory next to it. The temporary directory is renamed to target once
// fill succeeded, so target only ever exists completely.
func populate(cacheDir, target string, fill func(dir string) error) error {
	err := os.MkdirAll(cacheDir, cacheDirPerm)
	if err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmpDir, err := os.MkdirTemp(cacheDir, filepath.Base(target)+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}

	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			slog.Warn("Failed to remove temp dir",
				slog.String("path", tmpDir),
				slog.Any("error", err))
		}
	}()

	err = fill(tmpDir)
	if err != nil {
		return err
	}

	err = os.Rename(tmpDir, target)
	if err != nil {
		// Another process might have finished the same extraction first.
		if _, statErr := os.Stat(target); statErr == nil {
			return nil
		}

		return fmt.Errorf("rename: %w", err)
	}

	return nil
}
