// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package macho loads the dynamic linking information of Mach-O files.
//
// Only the parts relevant for resolving dependencies are exposed: the
// referenced dynamic libraries, the runtime search paths, the install name
// and the build platform. Thin and fat (universal) files are supported. For
// fat files the first architecture slice is used. Other object formats are
// detected and rejected with a [FormatError].
package macho
