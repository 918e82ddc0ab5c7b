// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysimage

import (
	"fmt"
	"io"

	"github.com/cavaliergopher/cpio"
)

const numLinks = 2

// TestArchiveWriter writes cpio archives in the format [Extract] reads.
type TestArchiveWriter struct {
	cpioWriter *cpio.Writer
}

// NewTestArchiveWriter creates a new archive writer.
func NewTestArchiveWriter(w io.Writer) *TestArchiveWriter {
	return &TestArchiveWriter{cpio.NewWriter(w)}
}

// Close writes the trailer. Flush is called by the underlying closer.
func (w *TestArchiveWriter) Close() error {
	err := w.cpioWriter.Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}

func (w *TestArchiveWriter) writeHeader(hdr *cpio.Header) error {
	if err := w.cpioWriter.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write header for %s: %w", hdr.Name, err)
	}

	return nil
}

// WriteDirectory adds a directory entry for the given path to the archive.
func (w *TestArchiveWriter) WriteDirectory(path string) error {
	return w.writeHeader(&cpio.Header{
		Name:  path,
		Mode:  cpio.TypeDir | cpio.ModePerm,
		Links: numLinks,
	})
}

// WriteLink adds a symbolic link for the given path pointing to the given
// target.
func (w *TestArchiveWriter) WriteLink(path, target string) error {
	err := w.writeHeader(&cpio.Header{
		Name: path,
		Mode: cpio.TypeSymlink | cpio.ModePerm,
		Size: int64(len(target)),
	})
	if err != nil {
		return err
	}

	// Body of a link is the path of the target file.
	if _, err := w.cpioWriter.Write([]byte(target)); err != nil {
		return fmt.Errorf("write body for %s: %w", path, err)
	}

	return nil
}

// WriteRegular adds a regular file with the given content.
func (w *TestArchiveWriter) WriteRegular(path string, content []byte) error {
	err := w.writeHeader(&cpio.Header{
		Name: path,
		Mode: cpio.TypeReg | 0o644,
		Size: int64(len(content)),
	})
	if err != nil {
		return err
	}

	if _, err := w.cpioWriter.Write(content); err != nil {
		return fmt.Errorf("write body for %s: %w", path, err)
	}

	return nil
}
