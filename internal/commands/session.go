// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"github.com/vfsh/vfsh/internal/host"
	"github.com/vfsh/vfsh/internal/vfs"
)

type (
	// Session is the mutable per-shell state: the current working directory.
	// It is not safe for concurrent use; the shell serializes access.
	Session struct {
		cwd string
	}

	// Env is everything a command may observe while running.
	Env struct {
		Tree    *vfs.Tree
		Session *Session
		Host    host.Host
	}
)

// NewSession returns a session positioned at the root directory.
func NewSession() *Session {
	return &Session{cwd: vfs.Separator}
}

// Cwd returns the absolute working directory.
func (s *Session) Cwd() string {
	if s.cwd == "" {
		return vfs.Separator
	}
	return s.cwd
}

// chdir sets the working directory. Callers must pass a normalized absolute
// path naming an existing directory.
func (s *Session) chdir(p string) {
	s.cwd = p
}

// Reset moves the session back to the root directory.
func (s *Session) Reset() {
	s.cwd = vfs.Separator
}

// resolve looks raw up relative to the session's working directory.
func (e *Env) resolve(raw string) (vfs.Node, string, error) {
	return e.Tree.Resolve(e.Session.Cwd(), raw)
}
