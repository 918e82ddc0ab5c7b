// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dyld

import "strings"

const frameworkSuffix = ".framework"

// frameworkVersions are the bundle versions probed for framework paths.
var frameworkVersions = []string{"A", "B", "C", "D"}

// versionedPaths returns the given path with "Versions/<version>/" inserted
// after the first "<name>.framework/" segment, once for every entry of
// [frameworkVersions]. It returns nil if the path has no such segment.
func versionedPaths(lib string) []string {
	end := frameworkSegmentEnd(lib)
	if end < 0 {
		return nil
	}

	paths := make([]string, 0, len(frameworkVersions))
	for _, version := range frameworkVersions {
		paths = append(paths, lib[:end]+"Versions/"+version+"/"+lib[end:])
	}

	return paths
}

// frameworkSegmentEnd returns the index right after the slash terminating the
// first "<name>.framework/" segment, or -1.
func frameworkSegmentEnd(lib string) int {
	start := 0

	for {
		length := strings.IndexByte(lib[start:], '/')
		if length < 0 {
			return -1
		}

		segment := lib[start : start+length]
		if len(segment) > len(frameworkSuffix) &&
			strings.HasSuffix(segment, frameworkSuffix) {
			return start + length + 1
		}

		start += length + 1
	}
}
