// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dyld

import (
	"fmt"
	"io"
	"strings"
)

const indentWidth = 2

// Reporter prints the dependency tree line by line as it is walked.
//
// Nodes are printed at an indentation of two spaces per depth level. Lines
// for the references of a node are indented one level deeper.
type Reporter struct {
	output io.Writer
}

// NewReporter creates a new [Reporter] writing to the given writer. Lines are
// written as they are reported, so the writer should not be buffered if the
// output is supposed to be streamed.
func NewReporter(output io.Writer) *Reporter {
	return &Reporter{output: output}
}

// Node prints the header of a resolved file.
func (r *Reporter) Node(depth int, name string) error {
	return r.printf(depth, "%s:\n", name)
}

// Duplicate prints a reference that has been visited before already.
func (r *Reporter) Duplicate(depth int, ref string) error {
	return r.printf(depth+1, "%s\n", ref)
}

// NotFound prints a warning for a reference that could not be resolved.
func (r *Reporter) NotFound(depth int, ref string) error {
	return r.printf(depth+1, "%s: warning: not found\n", ref)
}

func (r *Reporter) printf(depth int, format string, args ...any) error {
	indent := strings.Repeat(" ", depth*indentWidth)

	_, err := fmt.Fprintf(r.output, indent+format, args...)
	if err != nil {
		return fmt.Errorf("print: %w", err)
	}

	return nil
}
