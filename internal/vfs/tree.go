// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a path does not name a node.
	ErrNotFound = errors.New("no such file or directory")

	// ErrSkipDir may be returned by a WalkFunc to skip a directory's children.
	ErrSkipDir = errors.New("skip this directory")
)

type (
	// Tree is an immutable VFS rooted at "/". It is safe for concurrent reads.
	Tree struct {
		root *Directory
	}

	// WalkFunc is called by Tree.Walk for every node with its absolute path.
	WalkFunc func(p string, n Node) error
)

// NewTree creates a tree with the given root directory. A nil root yields an
// empty root directory.
func NewTree(root *Directory) *Tree {
	if root == nil {
		root = NewDirectory(nil)
	}
	return &Tree{root: root}
}

// Fallback returns the minimal tree used when a document cannot be loaded:
// an empty root directory.
func Fallback() *Tree {
	return NewTree(nil)
}

// Root returns the root directory.
func (t *Tree) Root() *Directory {
	return t.root
}

// Lookup walks the tree along the absolute path p. Every intermediate node must
// be a directory containing the next segment; otherwise ErrNotFound is
// returned and no partial result is produced.
func (t *Tree) Lookup(p string) (Node, error) {
	var cur Node = t.root
	for _, seg := range segments(p) {
		dir, ok := cur.(*Directory)
		if !ok {
			return nil, fmt.Errorf("%s: %w", p, ErrNotFound)
		}
		child, ok := dir.Child(seg)
		if !ok {
			return nil, fmt.Errorf("%s: %w", p, ErrNotFound)
		}
		cur = child
	}
	return cur, nil
}

// Resolve cleans raw against cwd and looks it up. It returns the node together
// with its normalized absolute path.
func (t *Tree) Resolve(cwd, raw string) (Node, string, error) {
	abs := Clean(cwd, raw)
	n, err := t.Lookup(abs)
	if err != nil {
		return nil, abs, err
	}
	return n, abs, nil
}

// Walk visits every node depth-first, children in name order, starting with
// the root at "/". Returning ErrSkipDir from fn for a directory skips its
// children; any other error stops the walk and is returned.
func (t *Tree) Walk(fn WalkFunc) error {
	err := walk(Separator, t.root, fn)
	if errors.Is(err, ErrSkipDir) {
		return nil
	}
	return err
}

func walk(p string, n Node, fn WalkFunc) error {
	if err := fn(p, n); err != nil {
		return err
	}
	dir, ok := n.(*Directory)
	if !ok {
		return nil
	}
	for _, name := range dir.Names() {
		child, _ := dir.Child(name)
		if err := walk(Join(p, name), child, fn); err != nil {
			if errors.Is(err, ErrSkipDir) {
				continue
			}
			return err
		}
	}
	return nil
}

// Stats counts the directories (including the root) and files in the tree.
func (t *Tree) Stats() (dirs, files int) {
	_ = t.Walk(func(_ string, n Node) error { //nolint:errcheck // fn never fails
		switch n.(type) {
		case *Directory:
			dirs++
		case *File:
			files++
		}
		return nil
	})
	return dirs, files
}
