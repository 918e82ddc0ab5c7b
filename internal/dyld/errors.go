// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dyld

import (
	"errors"
	"fmt"
)

// ErrInvalidPath is returned if a path can not be mapped into the file system
// the walker operates on.
var ErrInvalidPath = errors.New("invalid path")

// LoadError is returned if a file can not be read or parsed. It aborts the
// whole walk.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Is matches any other [LoadError].
func (e *LoadError) Is(other error) bool {
	_, ok := other.(*LoadError)
	return ok
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
