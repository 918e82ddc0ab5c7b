// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysimage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

const magicSize = 6

var (
	// newc format, with and without checksums.
	cpioMagics = [][]byte{
		[]byte("070701"),
		[]byte("070702"),
	}

	// Followed by the format version and the architecture, like
	// "dyld_v1  arm64e".
	sharedCacheMagic = []byte("dyld_v")
)

type kind int

const (
	kindArchive kind = iota
	kindSharedCache
)

func (k kind) String() string {
	switch k {
	case kindArchive:
		return "cpio archive"
	case kindSharedCache:
		return "dyld shared cache"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// detectKind detects the kind of the image file by its magic number.
func detectKind(path string) (kind, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	magic := make([]byte, magicSize)

	_, err = io.ReadFull(file, magic)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, ErrUnknownImage
		}

		return 0, fmt.Errorf("read magic: %w", err)
	}

	for _, cpioMagic := range cpioMagics {
		if bytes.Equal(magic, cpioMagic) {
			return kindArchive, nil
		}
	}

	if bytes.Equal(magic, sharedCacheMagic) {
		return kindSharedCache, nil
	}

	return 0, ErrUnknownImage
}
