// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysimage

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSharedCache is returned if no path is given and no dyld shared
	// cache is found at any of the default locations.
	ErrNoSharedCache = errors.New("no dyld shared cache found")

	// ErrUnknownImage is returned if a file is neither a cpio archive nor a
	// dyld shared cache.
	ErrUnknownImage = errors.New("neither cpio archive nor dyld shared cache")

	// ErrUnsafePath is returned for archive entries that would be extracted
	// outside of the target directory.
	ErrUnsafePath = errors.New("path outside of target directory")
)

// ExtractorError is returned if the external shared cache extractor could
// not be run or failed.
type ExtractorError struct {
	Tool   string
	Err    error
	Stderr string
}

// Error implements the [error] interface.
func (e *ExtractorError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Tool, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}

	return msg
}

// Is implements the [errors.Is] interface.
func (*ExtractorError) Is(other error) bool {
	_, ok := other.(*ExtractorError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *ExtractorError) Unwrap() error {
	return e.Err
}
