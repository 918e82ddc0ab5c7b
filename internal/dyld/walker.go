// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dyld

import (
	"io/fs"
	"log/slog"
	"math"

	"github.com/aibor/dyldtree/internal/macho"
)

// UnlimitedDepth can be used as [Config.MaxDepth] to not limit the tree.
const UnlimitedDepth = math.MaxInt

// Config configures a [Walker].
type Config struct {
	// MaxDepth is the maximum depth of the tree. The root file has depth 0.
	MaxDepth int
	// IgnorePrefixes are prefixes of references that are skipped silently.
	IgnorePrefixes []string
	// IncludeSystemDependencies enables resolving references that are
	// matched by [IsSystemDependency]. They are skipped silently otherwise.
	IncludeSystemDependencies bool
	// ExcludeAllDuplicates suppresses the lines for references that have
	// been visited before in the same branch.
	ExcludeAllDuplicates bool
	// SystemRoot is the root directory of an extracted system image. If set,
	// references are searched for below it as well.
	SystemRoot string
}

// Walker walks the dependency tree of a file.
type Walker struct {
	config   Config
	loader   Loader
	fsys     fs.FS
	reporter *Reporter
}

// NewWalker creates a new [Walker]. Files are loaded with the given [Loader].
// Candidate paths are probed in the given [fs.FS], which is expected to be
// rooted at "/".
func NewWalker(
	config Config,
	loader Loader,
	fsys fs.FS,
	reporter *Reporter,
) *Walker {
	return &Walker{
		config:   config,
		loader:   loader,
		fsys:     fsys,
		reporter: reporter,
	}
}

// Walk loads the file at the given path and prints its dependency tree.
//
// References that can not be resolved are reported and skipped. Any error
// loading a file, the root or any dependency, aborts the walk. Nothing is
// printed if the root file can not be loaded.
func (w *Walker) Walk(root string) error {
	_, err := w.walk(root, root, 0, VisitedSet{})
	return err
}

// walk prints the node for the file at the given path and walks its
// references. It returns the given visited set extended by all references
// visited in the subtree.
func (w *Walker) walk(
	path string,
	canonical string,
	depth int,
	visited VisitedSet,
) (VisitedSet, error) {
	binary, err := w.loader.Load(path)
	if err != nil {
		return visited, err //nolint:wrapcheck
	}

	slog.Debug("Visiting binary",
		slog.String("path", path),
		slog.Int("depth", depth))

	err = w.reporter.Node(depth, canonical)
	if err != nil {
		return visited, err
	}

	for _, ref := range binary.DependencyReferences() {
		visited, err = w.visit(ref, path, canonical, binary, depth, visited)
		if err != nil {
			return visited, err
		}
	}

	return visited, nil
}

// visit handles a single reference of the file at path.
func (w *Walker) visit(
	ref string,
	path string,
	canonical string,
	binary macho.Binary,
	depth int,
	visited VisitedSet,
) (VisitedSet, error) {
	// Never resolve the file itself, it would print itself as child.
	if ref == selfReference || ref == canonical || ref == binary.ID() {
		return visited, nil
	}

	if depth >= w.config.MaxDepth {
		return visited, nil
	}

	if hasAnyPrefix(ref, w.config.IgnorePrefixes) {
		slog.Debug("Ignoring prefix", slog.String("ref", ref))
		return visited, nil
	}

	if !w.config.IncludeSystemDependencies && IsSystemDependency(ref) {
		slog.Debug("Ignoring system dependency", slog.String("ref", ref))
		return visited, nil
	}

	if visited.Contains(ref) {
		if w.config.ExcludeAllDuplicates {
			return visited, nil
		}

		return visited, w.reporter.Duplicate(depth, ref)
	}

	visited = visited.With(ref)

	candidates := Candidates(
		ref,
		path,
		binary.SearchPaths(),
		w.config.SystemRoot,
	)

	for _, candidate := range candidates {
		slog.Debug("Checking path", slog.String("path", candidate))

		if !Exists(w.fsys, candidate) {
			continue
		}

		slog.Debug("Found path", slog.String("path", candidate))

		subtree, err := w.walk(candidate, ref, depth+1, visited)
		if err != nil {
			return visited, err
		}

		return visited.Union(subtree), nil
	}

	return visited, w.reporter.NotFound(depth, ref)
}
