// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package dyld resolves the dependency tree of Mach-O files the way the
// dynamic linker would find them on disk and prints it.
//
// Dependency references are resolved by generating candidate paths with
// [Candidates] and picking the first one that exists. The [Walker] recurses
// depth first into every resolved file and streams an indented tree to a
// [Reporter]. Cycles terminate because every branch tracks the references it
// has already seen in a [VisitedSet].
package dyld
