// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"path"
	"strings"
)

// Separator is the VFS path separator.
const Separator = "/"

// Clean turns raw into a normalized absolute path.
//
// An empty raw path or "/" denotes the root. A relative raw path is joined to
// cwd with a single separator. The result is normalized: "." segments are
// dropped, ".." removes the preceding segment (and stays at the root when there
// is none), and repeated separators collapse.
func Clean(cwd, raw string) string {
	if raw == "" || raw == Separator {
		return Separator
	}

	p := raw
	if !IsAbs(raw) {
		p = strings.TrimSuffix(cwd, Separator) + Separator + raw
	}

	cleaned := path.Clean(p)
	if !IsAbs(cleaned) {
		cleaned = Separator + cleaned
	}
	return cleaned
}

// IsAbs reports whether p starts at the root.
func IsAbs(p string) bool {
	return strings.HasPrefix(p, Separator)
}

// Join appends a child name to an absolute directory path.
func Join(dir, name string) string {
	if dir == Separator {
		return Separator + name
	}
	return dir + Separator + name
}

// segments splits an absolute path into its non-empty components.
func segments(p string) []string {
	parts := strings.Split(p, Separator)
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
