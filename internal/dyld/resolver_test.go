// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dyld_test

import (
	"testing"

	"github.com/aibor/dyldtree/internal/dyld"
	"github.com/stretchr/testify/assert"
)

func TestCandidates(t *testing.T) {
	tests := []struct {
		name        string
		ref         string
		owner       string
		searchPaths []string
		systemRoot  string
		expected    []string
	}{
		{
			name:  "rpath",
			ref:   "@rpath/libFoo.dylib",
			owner: "/a/b/MyApp",
			searchPaths: []string{
				"@executable_path/../lib",
				"/usr/lib",
			},
			expected: []string{
				"/a/b/../lib/libFoo.dylib",
				"/usr/lib/libFoo.dylib",
			},
		},
		{
			name:  "rpath with loader path",
			ref:   "@rpath/Bar.framework/Bar",
			owner: "/a/b/libX.dylib",
			searchPaths: []string{
				"@loader_path/Frameworks/",
			},
			expected: []string{
				"/a/b/Frameworks/Bar.framework/Bar",
			},
		},
		{
			name:  "rpath bare loader path is a plain directory",
			ref:   "@rpath/libFoo.dylib",
			owner: "/a/b/libX.dylib",
			searchPaths: []string{
				"@loader_path",
				"@loader_path/",
			},
			expected: []string{
				"@loader_path/libFoo.dylib",
				"/a/b/libFoo.dylib",
			},
		},
		{
			name:  "rpath with system root",
			ref:   "@rpath/libFoo.dylib",
			owner: "/a/b/MyApp",
			searchPaths: []string{
				"@executable_path/../lib",
				"/usr/lib",
				"/opt/lib",
			},
			systemRoot: "/cache/",
			expected: []string{
				"/a/b/../lib/libFoo.dylib",
				"/usr/lib/libFoo.dylib",
				"/cache/usr/lib/libFoo.dylib",
				"/opt/lib/libFoo.dylib",
				"/cache/opt/lib/libFoo.dylib",
			},
		},
		{
			name:     "rpath without search paths",
			ref:      "@rpath/libFoo.dylib",
			owner:    "/a/b/MyApp",
			expected: []string{},
		},
		{
			name:  "framework",
			ref:   "/System/Library/Frameworks/Foo.framework/Foo",
			owner: "/a/b/MyApp",
			expected: []string{
				"/System/Library/Frameworks/Foo.framework/Foo",
				"/System/Library/Frameworks/Foo.framework/Versions/A/Foo",
				"/System/Library/Frameworks/Foo.framework/Versions/B/Foo",
				"/System/Library/Frameworks/Foo.framework/Versions/C/Foo",
				"/System/Library/Frameworks/Foo.framework/Versions/D/Foo",
			},
		},
		{
			name:  "nested framework rewrites first segment only",
			ref:   "/F/Outer.framework/Frameworks/Inner.framework/Inner",
			owner: "/a/b/MyApp",
			expected: []string{
				"/F/Outer.framework/Frameworks/Inner.framework/Inner",
				"/F/Outer.framework/Versions/A/Frameworks/Inner.framework/Inner",
				"/F/Outer.framework/Versions/B/Frameworks/Inner.framework/Inner",
				"/F/Outer.framework/Versions/C/Frameworks/Inner.framework/Inner",
				"/F/Outer.framework/Versions/D/Frameworks/Inner.framework/Inner",
			},
		},
		{
			name:  "plain library",
			ref:   "/usr/lib/libz.1.dylib",
			owner: "/a/b/MyApp",
			expected: []string{
				"/usr/lib/libz.1.dylib",
			},
		},
		{
			name:       "plain library with system root",
			ref:        "/usr/lib/libz.1.dylib",
			owner:      "/a/b/MyApp",
			systemRoot: "/cache",
			expected: []string{
				"/usr/lib/libz.1.dylib",
				"/cache/usr/lib/libz.1.dylib",
				"/cache/System/iOSSupport/usr/lib/libz.1.dylib",
			},
		},
		{
			name:       "framework with system root",
			ref:        "/S/Foo.framework/Foo",
			owner:      "/a/b/MyApp",
			systemRoot: "/cache",
			expected: []string{
				"/S/Foo.framework/Foo",
				"/S/Foo.framework/Versions/A/Foo",
				"/S/Foo.framework/Versions/B/Foo",
				"/S/Foo.framework/Versions/C/Foo",
				"/S/Foo.framework/Versions/D/Foo",
				"/cache/S/Foo.framework/Foo",
				"/cache/S/Foo.framework/Versions/A/Foo",
				"/cache/S/Foo.framework/Versions/B/Foo",
				"/cache/S/Foo.framework/Versions/C/Foo",
				"/cache/S/Foo.framework/Versions/D/Foo",
				"/cache/System/iOSSupport/S/Foo.framework/Foo",
				"/cache/System/iOSSupport/S/Foo.framework/Versions/A/Foo",
				"/cache/System/iOSSupport/S/Foo.framework/Versions/B/Foo",
				"/cache/System/iOSSupport/S/Foo.framework/Versions/C/Foo",
				"/cache/System/iOSSupport/S/Foo.framework/Versions/D/Foo",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := dyld.Candidates(tt.ref, tt.owner, tt.searchPaths, tt.systemRoot)
			assert.Equal(t, tt.expected, actual)
		})
	}
}
