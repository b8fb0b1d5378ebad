// SPDX-License-Identifier: MPL-2.0

// Package vfs implements the read-only virtual filesystem the shell operates on.
//
// A Tree is loaded once from a JSON document of the form
//
//	{"/": {"type": "directory", "content": {
//	    "readme.txt": {"type": "file", "content": "hello\n"},
//	    "docs": {"type": "directory", "content": {}}
//	}}}
//
// and is never mutated afterwards. Load always returns a usable tree: when the
// document is missing, malformed, or structurally invalid it returns a fallback
// tree holding only an empty root directory together with a *LoadError.
//
// Paths are resolved with Clean (join with the working directory and apply the
// usual "." / ".." / "//" normalization) followed by Lookup (walk the tree one
// segment at a time).
package vfs
