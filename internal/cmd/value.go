// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aibor/dyldtree/internal/dyld"
)

const unlimited = "unlimited"

// ErrValueOutOfRange is returned if a number is outside of the allowed range.
var ErrValueOutOfRange = errors.New("value is outside of range")

// depthValue is a [flag.Value] for the maximum tree depth. Besides numbers
// it accepts "unlimited".
type depthValue struct {
	depth *int
}

func (d *depthValue) String() string {
	if d.depth == nil || *d.depth == dyld.UnlimitedDepth {
		return unlimited
	}

	return strconv.Itoa(*d.depth)
}

func (d *depthValue) Set(s string) error {
	if s == unlimited {
		*d.depth = dyld.UnlimitedDepth
		return nil
	}

	value, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	// math.MaxInt is reserved for unlimited.
	if value >= math.MaxInt {
		return fmt.Errorf("%d > %d: %w", value, math.MaxInt-1, ErrValueOutOfRange)
	}

	*d.depth = int(value)

	return nil
}

// stringListValue is a [flag.Value] that collects all values of a flag used
// multiple times. An empty value clears the list.
type stringListValue []string

func (l *stringListValue) String() string {
	return strings.Join(*l, ",")
}

func (l *stringListValue) Set(s string) error {
	if s == "" {
		*l = nil
		return nil
	}

	*l = append(*l, s)

	return nil
}
