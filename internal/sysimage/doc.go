// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sysimage provides the root directory of a system library image.
//
// Recent macOS versions do not ship the system libraries as individual files.
// They are only present in the dyld shared cache. In order to resolve
// dependencies on them, the cache must be extracted first. An image can also
// be given as an already extracted directory or as a cpio archive of one.
//
// Extracted images are kept in the user's cache directory and reused as long
// as the source file does not change.
package sysimage
