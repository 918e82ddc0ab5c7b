// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dyld

import "strings"

// selfReference is the placeholder parsers may record for a file's own
// identity.
const selfReference = "self"

// systemPrefixes mark references to libraries shipped with the operating
// system.
var systemPrefixes = []string{
	"/usr/lib/",
	"/System",
	"@rpath/libswift",
}

// IsSystemDependency reports whether the reference points to a library
// shipped with the operating system.
func IsSystemDependency(ref string) bool {
	return hasAnyPrefix(ref, systemPrefixes)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}
