// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dyld

import (
	"iter"
	"slices"

	"github.com/zeebo/xxh3"
)

const (
	visitedBits   = 4
	visitedFanout = 1 << visitedBits
	visitedMask   = visitedFanout - 1
	visitedLevels = 64 / visitedBits
)

// VisitedSet is an immutable set of dependency references.
//
// The zero value is an empty set. Adding to a set returns a new set and
// leaves the original untouched, so sets can be handed to recursive calls by
// value. Sets derived from each other share their unchanged parts.
type VisitedSet struct {
	root *visitedNode
	size int
}

// visitedNode is a node of a hash trie. Keys are stored in the leaves at
// level [visitedLevels] only.
type visitedNode struct {
	children [visitedFanout]*visitedNode
	keys     []string
}

// Len returns the number of references in the set.
func (s VisitedSet) Len() int {
	return s.size
}

// Contains reports whether the reference is in the set.
func (s VisitedSet) Contains(ref string) bool {
	hash := xxh3.HashString(ref)
	node := s.root

	for level := 0; node != nil; level++ {
		if level == visitedLevels {
			return slices.Contains(node.keys, ref)
		}

		node = node.children[childIndex(hash, level)]
	}

	return false
}

// With returns a set that contains all references of s and the given one.
func (s VisitedSet) With(ref string) VisitedSet {
	if s.Contains(ref) {
		return s
	}

	return VisitedSet{
		root: s.root.with(ref, xxh3.HashString(ref), 0),
		size: s.size + 1,
	}
}

// Union returns a set that contains all references of s and other.
func (s VisitedSet) Union(other VisitedSet) VisitedSet {
	root, added := union(s.root, other.root, 0)

	return VisitedSet{
		root: root,
		size: s.size + added,
	}
}

// All returns an iterator over all references in unspecified order.
func (s VisitedSet) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		s.root.walk(yield)
	}
}

func childIndex(hash uint64, level int) int {
	return int(hash>>(level*visitedBits)) & visitedMask
}

// with returns a copy of the path to the key's leaf with the key added. The
// key must not be present yet. n may be nil.
func (n *visitedNode) with(key string, hash uint64, level int) *visitedNode {
	clone := &visitedNode{}
	if n != nil {
		*clone = *n
	}

	if level == visitedLevels {
		clone.keys = append(slices.Clip(clone.keys), key)
		return clone
	}

	idx := childIndex(hash, level)
	clone.children[idx] = clone.children[idx].with(key, hash, level+1)

	return clone
}

func (n *visitedNode) walk(yield func(string) bool) bool {
	if n == nil {
		return true
	}

	for _, key := range n.keys {
		if !yield(key) {
			return false
		}
	}

	for _, child := range n.children {
		if !child.walk(yield) {
			return false
		}
	}

	return true
}

func (n *visitedNode) count() int {
	var num int

	n.walk(func(string) bool {
		num++
		return true
	})

	return num
}

// union merges b into a and returns the result and the number of keys that
// were added to a. Subtrees shared by a and b are not visited.
func union(a, b *visitedNode, level int) (*visitedNode, int) {
	switch {
	case b == nil || a == b:
		return a, 0
	case a == nil:
		return b, b.count()
	}

	if level == visitedLevels {
		var missing []string

		for _, key := range b.keys {
			if !slices.Contains(a.keys, key) {
				missing = append(missing, key)
			}
		}

		if len(missing) == 0 {
			return a, 0
		}

		return &visitedNode{
			keys: append(slices.Clip(a.keys), missing...),
		}, len(missing)
	}

	var (
		clone = *a
		added int
	)

	for idx := range clone.children {
		child, num := union(a.children[idx], b.children[idx], level+1)
		clone.children[idx] = child
		added += num
	}

	if added == 0 {
		return a, 0
	}

	return &clone, added
}
