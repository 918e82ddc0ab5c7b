// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dyld

import (
	"path"
	"strings"
)

const (
	rpathPrefix          = "@rpath/"
	executablePathPrefix = "@executable_path/"
	loaderPathPrefix     = "@loader_path/"

	// iOSSupportDir is the subtree of a system image with the libraries of
	// Mac Catalyst apps.
	iOSSupportDir = "System/iOSSupport"
)

// Candidates returns the paths a dependency reference might be found at, in
// the order they should be probed.
//
// owner is the path of the file the reference is recorded in and
// searchPaths are its LC_RPATH entries. If systemRoot is not empty, it is the
// root of an extracted system image that is searched as well.
//
// Paths are joined but never cleaned, so relative components of search paths
// are preserved.
func Candidates(
	ref string,
	owner string,
	searchPaths []string,
	systemRoot string,
) []string {
	if suffix, ok := strings.CutPrefix(ref, rpathPrefix); ok {
		return rpathCandidates(suffix, owner, searchPaths, systemRoot)
	}

	return literalCandidates(ref, systemRoot)
}

func rpathCandidates(
	suffix string,
	owner string,
	searchPaths []string,
	systemRoot string,
) []string {
	paths := make([]string, 0, len(searchPaths))

	for _, searchPath := range searchPaths {
		// @loader_path should be relative to the file that loads the
		// library and @executable_path relative to the main executable.
		// Both are resolved relative to the owner.
		if rel, ok := cutRelocationPrefix(searchPath); ok {
			paths = append(paths, joinPath(path.Dir(owner), rel, suffix))
			continue
		}

		paths = append(paths, joinPath(searchPath, suffix))

		if systemRoot != "" {
			paths = append(paths, joinPath(systemRoot, searchPath, suffix))
		}
	}

	return paths
}

func literalCandidates(lib string, systemRoot string) []string {
	versioned := versionedPaths(lib)

	paths := make([]string, 0, 1+len(versioned))
	paths = append(paths, lib)
	paths = append(paths, versioned...)

	if systemRoot == "" {
		return paths
	}

	for _, root := range []string{
		systemRoot,
		joinPath(systemRoot, iOSSupportDir),
	} {
		paths = append(paths, joinPath(root, lib))

		for _, versionedLib := range versioned {
			paths = append(paths, joinPath(root, versionedLib))
		}
	}

	return paths
}

func cutRelocationPrefix(searchPath string) (string, bool) {
	for _, prefix := range []string{executablePathPrefix, loaderPathPrefix} {
		if rel, ok := strings.CutPrefix(searchPath, prefix); ok {
			return rel, true
		}
	}

	return "", false
}

// joinPath joins the given elements with exactly one slash between them.
// Unlike [path.Join] the result is not cleaned.
func joinPath(elems ...string) string {
	var joined strings.Builder

	for _, elem := range elems {
		if elem == "" {
			continue
		}

		if joined.Len() > 0 {
			elem = strings.TrimLeft(elem, "/")

			if !strings.HasSuffix(joined.String(), "/") {
				joined.WriteByte('/')
			}
		}

		joined.WriteString(elem)
	}

	return joined.String()
}
