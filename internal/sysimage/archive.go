// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysimage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/cavaliergopher/cpio"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// extractArchive extracts the cpio archive at source into dir. Only
// directories, regular files and symbolic links are extracted. Other entries
// are skipped. Nothing is written outside of dir.
func extractArchive(ctx context.Context, source, dir string) error {
	file, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	dst, err := openTarget(dir)
	if err != nil {
		return err
	}
	defer dst.Close()

	reader := cpio.NewReader(bufio.NewReader(file))

	for {
		if err := context.Cause(ctx); err != nil {
			return fmt.Errorf("extract: %w", err)
		}

		hdr, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("read archive: %w", err)
		}

		err = dst.extractEntry(reader, hdr)
		if err != nil {
			return fmt.Errorf("extract %s: %w", hdr.Name, err)
		}
	}
}

// target is the directory archive entries are extracted into. All file
// operations go through an [os.Root], so symbolic links are never followed
// out of it.
type target struct {
	dir  string
	root *os.Root
}

func openTarget(dir string) (*target, error) {
	// Resolved, so it can be compared with resolved entry parents.
	dir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve target: %w", err)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open target: %w", err)
	}

	return &target{dir: dir, root: root}, nil
}

func (t *target) Close() error {
	return t.root.Close() //nolint:wrapcheck
}

func (t *target) extractEntry(reader io.Reader, hdr *cpio.Header) error {
	name, err := entryPath(hdr.Name)
	if err != nil {
		return err
	}

	// The root entry "." exists already.
	if name == "." {
		return nil
	}

	switch hdr.Mode & cpio.ModeType {
	case cpio.TypeDir:
		if err := t.checkParent(name); err != nil {
			return err
		}

		return t.mkdirAll(name)
	case cpio.TypeReg:
		if err := t.prepare(name); err != nil {
			return err
		}

		return t.writeFile(name, reader)
	case cpio.TypeSymlink:
		if err := checkLink(name, hdr.Linkname); err != nil {
			return err
		}

		if err := t.prepare(name); err != nil {
			return err
		}

		err := os.Symlink(hdr.Linkname, filepath.Join(t.dir, name))
		if err != nil {
			return fmt.Errorf("symlink: %w", err)
		}

		return nil
	default:
		slog.Debug("Skipping archive entry",
			slog.String("name", hdr.Name),
			slog.String("mode", hdr.Mode.String()))

		return nil
	}
}

// entryPath returns the entry name as local path. Absolute names are taken
// relative to the archive root.
func entryPath(name string) (string, error) {
	name = strings.TrimLeft(name, "/")
	if name == "" {
		return ".", nil
	}

	name = filepath.Clean(name)
	if !filepath.IsLocal(name) {
		return "", ErrUnsafePath
	}

	return name, nil
}

// checkLink fails for link targets that are absolute or leave the target
// directory when resolved relative to the link's directory.
func checkLink(name, linkname string) error {
	if linkname == "" || filepath.IsAbs(linkname) {
		return ErrUnsafePath
	}

	if !filepath.IsLocal(filepath.Join(filepath.Dir(name), linkname)) {
		return ErrUnsafePath
	}

	return nil
}

// checkParent fails if the nearest existing parent of name resolves to a
// directory outside of the target or is a dangling symbolic link.
func (t *target) checkParent(name string) error {
	for parent := filepath.Dir(name); ; parent = filepath.Dir(parent) {
		path := filepath.Join(t.dir, parent)

		_, err := os.Lstat(path)
		if errors.Is(err, fs.ErrNotExist) && parent != "." {
			continue
		} else if err != nil {
			return fmt.Errorf("stat: %w", err)
		}

		resolved, err := filepath.EvalSymlinks(path)
		if errors.Is(err, fs.ErrNotExist) {
			return ErrUnsafePath
		} else if err != nil {
			return fmt.Errorf("resolve: %w", err)
		}

		rel, err := filepath.Rel(t.dir, resolved)
		if err != nil || !filepath.IsLocal(rel) {
			return ErrUnsafePath
		}

		return nil
	}
}

// prepare creates the parent directories of name and removes a symbolic
// link already present at name.
func (t *target) prepare(name string) error {
	if err := t.checkParent(name); err != nil {
		return err
	}

	if err := t.mkdirAll(filepath.Dir(name)); err != nil {
		return err
	}

	info, err := t.root.Lstat(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		if err := t.root.Remove(name); err != nil {
			return fmt.Errorf("remove link: %w", err)
		}
	}

	return nil
}

func (t *target) mkdirAll(name string) error {
	if name == "." {
		return nil
	}

	if err := t.mkdirAll(filepath.Dir(name)); err != nil {
		return err
	}

	err := t.root.Mkdir(name, dirPerm)
	if err == nil {
		return nil
	}

	if !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("mkdir: %w", err)
	}

	info, err := t.root.Stat(name)
	if err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("mkdir %s: %w", name, syscall.ENOTDIR)
	}

	return nil
}

func (t *target) writeFile(name string, content io.Reader) error {
	file, err := t.root.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	_, err = io.Copy(file, content)
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("write: %w", err)
	}

	err = file.Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}
