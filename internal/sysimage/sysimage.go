// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysimage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/aibor/dyldtree/internal/sys"
)

// DefaultExtractor is the command used for extracting dyld shared caches.
//
// See https://github.com/keith/dyld-shared-cache-extractor.
const DefaultExtractor = "dyld-shared-cache-extractor"

const cacheDirName = "dyldtree"

// Spec describes where to get the system image from.
type Spec struct {
	// Path is an extracted directory, a cpio archive or a dyld shared cache.
	// If empty, the first existing of [DefaultSharedCachePaths] is used.
	Path string

	// CacheDir is the directory extracted images are stored in. If empty,
	// "dyldtree" in [os.UserCacheDir] is used.
	CacheDir string

	// Extractor is the command that extracts dyld shared caches. It is called
	// with the cache and the target directory as arguments. If empty,
	// [DefaultExtractor] is used.
	Extractor string
}

func (s Spec) cacheDir() (string, error) {
	if s.CacheDir != "" {
		return s.CacheDir, nil
	}

	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cache dir: %w", err)
	}

	return filepath.Join(userCacheDir, cacheDirName), nil
}

func (s Spec) extractor() string {
	if s.Extractor != "" {
		return s.Extractor
	}

	return DefaultExtractor
}

// DefaultSharedCachePaths returns the locations of the dyld shared cache of
// the given architecture, in the order they are tried. The architecture uses
// GOARCH names.
func DefaultSharedCachePaths(arch string) []string {
	name := "dyld_shared_cache_" + sharedCacheArch(arch)

	return []string{
		// macOS 13 and later.
		"/System/Volumes/Preboot/Cryptexes/OS/System/Library/dyld/" + name,
		// macOS 11 and 12.
		"/System/Library/dyld/" + name,
	}
}

func sharedCacheArch(arch string) string {
	switch arch {
	case "arm64":
		return "arm64e"
	case "amd64":
		return "x86_64"
	default:
		return arch
	}
}

// Extract returns the root directory of the system image described by the
// given [Spec].
//
// Directories are returned as is. Archives and shared caches are extracted
// into the cache directory first, unless an extraction of the same unchanged
// file exists already.
func Extract(ctx context.Context, spec Spec) (string, error) {
	source := spec.Path
	if source == "" {
		var err error

		source, err = findSharedCache(DefaultSharedCachePaths(runtime.GOARCH))
		if err != nil {
			return "", err
		}
	}

	isDir, err := sys.IsDirectory(source)
	if err != nil {
		return "", fmt.Errorf("%s: %w", source, err)
	}

	if isDir {
		slog.Debug("Using system image directory", slog.String("path", source))
		return source, nil
	}

	kind, err := detectKind(source)
	if err != nil {
		return "", fmt.Errorf("%s: %w", source, err)
	}

	cacheDir, err := spec.cacheDir()
	if err != nil {
		return "", err
	}

	target, err := cachePath(cacheDir, source)
	if err != nil {
		return "", fmt.Errorf("%s: %w", source, err)
	}

	if _, err := os.Stat(target); err == nil {
		slog.Debug("Using cached system image",
			slog.String("source", source),
			slog.String("path", target))

		return target, nil
	}

	slog.Debug("Extracting system image",
		slog.String("source", source),
		slog.String("kind", kind.String()),
		slog.String("path", target))

	err = populate(cacheDir, target, func(dir string) error {
		if kind == kindArchive {
			return extractArchive(ctx, source, dir)
		}

		return runExtractor(ctx, spec.extractor(), source, dir)
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", source, err)
	}

	return target, nil
}

func findSharedCache(paths []string) (string, error) {
	for _, path := range paths {
		err := sys.CheckRegularFile(path)
		if err == nil {
			return path, nil
		}

		slog.Debug("No shared cache",
			slog.String("path", path),
			slog.Any("error", err))
	}

	return "", ErrNoSharedCache
}
