// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"errors"
	"fmt"

	"github.com/vfsh/vfsh/internal/vfs"
)

const (
	// NotFound means the path does not name any node.
	NotFound ResolutionKind = iota + 1
	// NotADirectory means the path names a file where a directory is needed.
	NotADirectory
	// NotAFile means the path names a directory where a file is needed.
	NotAFile
)

var (
	// ErrUnknownCommand is returned by Registry.Run for unregistered names.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrNotADirectory matches ResolutionErrors of kind NotADirectory.
	ErrNotADirectory = errors.New("not a directory")
	// ErrNotAFile matches ResolutionErrors of kind NotAFile.
	ErrNotAFile = errors.New("not a file")
	// ErrUsage matches every UsageError.
	ErrUsage = errors.New("usage error")
)

type (
	// ResolutionKind classifies a failed path resolution.
	ResolutionKind int

	// ResolutionError reports that a path did not resolve to the kind of node
	// a command needs. Message is the command-specific text shown to the user.
	ResolutionError struct {
		Kind    ResolutionKind
		Path    string
		Message string
	}

	// UsageError reports a missing operand, an unknown flag or a bad value.
	UsageError struct {
		Message string
	}
)

// String returns the kind's description.
func (k ResolutionKind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case NotADirectory:
		return "not a directory"
	case NotAFile:
		return "not a file"
	default:
		return fmt.Sprintf("ResolutionKind(%d)", int(k))
	}
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Kind)
}

// Unwrap exposes the kind sentinel. NotFound unwraps to vfs.ErrNotFound.
func (e *ResolutionError) Unwrap() error {
	switch e.Kind {
	case NotFound:
		return vfs.ErrNotFound
	case NotADirectory:
		return ErrNotADirectory
	case NotAFile:
		return ErrNotAFile
	default:
		return nil
	}
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	return e.Message
}

// Unwrap returns ErrUsage.
func (e *UsageError) Unwrap() error {
	return ErrUsage
}

func usageErrorf(format string, args ...any) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

func missingOperand() error {
	return &UsageError{Message: "missing file operand"}
}

// noSuchFile is the message tac and wc share for any path that is not a file.
func noSuchFile(raw string, n vfs.Node) error {
	kind := NotFound
	if n != nil {
		kind = NotAFile
	}
	return &ResolutionError{
		Kind:    kind,
		Path:    raw,
		Message: fmt.Sprintf("cannot access '%s': No such file", raw),
	}
}
