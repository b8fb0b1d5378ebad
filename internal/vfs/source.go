// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"sync"
	"sync/atomic"
)

// Source holds the current tree loaded from a document path. Trees are
// immutable; Reload swaps in a new tree so that readers holding the previous
// one keep a consistent view. It is safe for concurrent use.
type Source struct {
	path string
	tree atomic.Pointer[Tree]

	mu      sync.Mutex
	lastErr error
}

// NewSource loads path and returns a Source holding the result. On failure the
// Source holds the fallback tree and the load error is returned as well.
func NewSource(path string) (*Source, error) {
	s := &Source{path: path}
	tree, err := Load(path)
	s.tree.Store(tree)
	s.lastErr = err
	return s, err
}

// StaticSource wraps an existing tree. Reload on it is a no-op.
func StaticSource(tree *Tree) *Source {
	s := &Source{}
	s.tree.Store(tree)
	return s
}

// Path returns the document path, or "" for a static source.
func (s *Source) Path() string { return s.path }

// Tree returns the current tree.
func (s *Source) Tree() *Tree { return s.tree.Load() }

// Err returns the error from the most recent load attempt, if any.
func (s *Source) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Reload re-reads the document. A failed reload keeps the current tree
// (which may itself be the fallback) and returns the load error.
func (s *Source) Reload() error {
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tree, err := Load(s.path)
	s.lastErr = err
	if err != nil {
		return err
	}
	s.tree.Store(tree)
	return nil
}
