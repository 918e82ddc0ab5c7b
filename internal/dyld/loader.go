// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dyld

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/aibor/dyldtree/internal/macho"
	"github.com/aibor/dyldtree/internal/sys"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of parsed files an [FSLoader] keeps.
const DefaultCacheSize = 512

// Loader loads the file with the given path.
type Loader interface {
	Load(path string) (macho.Binary, error)
}

// FSLoader loads Mach-O files from an [fs.FS] rooted at "/".
//
// Parsed files are cached, so libraries that show up in multiple branches of
// the tree are read only once.
type FSLoader struct {
	fsys  fs.FS
	cache *lru.Cache[string, macho.Binary]
}

// NewFSLoader creates a new [FSLoader] for the given [fs.FS] that caches up to
// cacheSize parsed files.
func NewFSLoader(fsys fs.FS, cacheSize int) (*FSLoader, error) {
	cache, err := lru.New[string, macho.Binary](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("binary cache: %w", err)
	}

	return &FSLoader{
		fsys:  fsys,
		cache: cache,
	}, nil
}

// Load implements [Loader]. Errors are returned as [LoadError].
func (l *FSLoader) Load(path string) (macho.Binary, error) {
	name, err := fsName(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	err = checkParentDirs(l.fsys, path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: pathErrCause(err)}
	}

	if binary, exists := l.cache.Get(name); exists {
		return binary, nil
	}

	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, &LoadError{Path: path, Err: pathErrCause(err)}
	}

	binary, err := macho.Load(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	l.cache.Add(name, binary)

	return binary, nil
}

// Exists reports whether a file exists at the given path.
func Exists(fsys fs.FS, path string) bool {
	name, err := fsName(path)
	if err != nil {
		return false
	}

	if checkParentDirs(fsys, path) != nil {
		return false
	}

	_, err = fs.Stat(fsys, name)

	return err == nil
}

// checkParentDirs fails unless every path element followed by ".." is an
// existing directory. Cleaning the path removes these elements, but the
// kernel still has to walk through them.
func checkParentDirs(fsys fs.FS, path string) error {
	elems := strings.Split(path, "/")

	for idx := 1; idx < len(elems); idx++ {
		if elems[idx] != ".." {
			continue
		}

		parent := strings.Join(elems[:idx], "/")
		if parent == "" {
			parent = "/"
		}

		name, err := fsName(parent)
		if err != nil {
			return err
		}

		info, err := fs.Stat(fsys, name)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if !info.IsDir() {
			return fmt.Errorf("%s: %w", parent, syscall.ENOTDIR)
		}
	}

	return nil
}

// pathErrCause returns the cause of an [fs.PathError]. The path error carries
// the fs internal name, which is not what the user asked for.
func pathErrCause(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}

	return err
}

// fsName maps a host path to a name valid for an [fs.FS] rooted at "/".
// Relative paths are relative to the working directory.
func fsName(path string) (string, error) {
	if !filepath.IsAbs(path) {
		abs, err := sys.AbsolutePath(path)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidPath, err)
		}

		path = abs
	}

	name := strings.TrimPrefix(filepath.Clean(path), "/")
	if name == "" {
		name = "."
	}

	if !fs.ValidPath(name) {
		return "", ErrInvalidPath
	}

	return name, nil
}
