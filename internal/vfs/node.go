// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"maps"
	"slices"
)

const (
	// KindFile identifies a File node.
	KindFile NodeKind = iota + 1
	// KindDirectory identifies a Directory node.
	KindDirectory
)

type (
	// NodeKind tags the two node variants.
	NodeKind int

	// Node is either a *Directory or a *File. The interface is sealed so type
	// switches over the two variants are exhaustive.
	Node interface {
		Kind() NodeKind
		node()
	}

	// Directory maps child names to nodes.
	Directory struct {
		children map[string]Node
	}

	// File holds textual content.
	File struct {
		content string
	}
)

// String returns the JSON type tag of the kind.
func (k NodeKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// NewDirectory creates a directory holding a copy of children.
func NewDirectory(children map[string]Node) *Directory {
	d := &Directory{children: make(map[string]Node, len(children))}
	maps.Copy(d.children, children)
	return d
}

// NewFile creates a file with the given content.
func NewFile(content string) *File {
	return &File{content: content}
}

// Kind implements Node.
func (d *Directory) Kind() NodeKind { return KindDirectory }

func (d *Directory) node() {}

// Child returns the named child.
func (d *Directory) Child(name string) (Node, bool) {
	n, ok := d.children[name]
	return n, ok
}

// Names returns the child names in lexicographic order.
func (d *Directory) Names() []string {
	return slices.Sorted(maps.Keys(d.children))
}

// Len returns the number of children.
func (d *Directory) Len() int { return len(d.children) }

// Kind implements Node.
func (f *File) Kind() NodeKind { return KindFile }

func (f *File) node() {}

// Content returns the file content.
func (f *File) Content() string { return f.content }
