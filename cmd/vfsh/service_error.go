// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/vfsh/vfsh/internal/issue"
	"github.com/vfsh/vfsh/internal/vfs"
)

// ServiceError is an error that carries rendering hints for the CLI layer:
// an optional pre-styled message and an optional issue catalog entry.
// Always create via newServiceError.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID selects the catalog entry rendered below the error, 0 for none.
	IssueID issue.Id
	// StyledMessage is printed before the catalog entry.
	StyledMessage string
}

// newServiceError creates a ServiceError and panics on a nil err.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// renderServiceError prints the styled message, then the catalog entry
// rendered with glamour in the given style.
func renderServiceError(w io.Writer, svcErr *ServiceError, style string) error {
	if svcErr == nil {
		return nil
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(w, svcErr.StyledMessage)
	}
	if svcErr.IssueID == 0 {
		return nil
	}

	entry := issue.Get(svcErr.IssueID)
	if entry == nil {
		return nil
	}
	rendered, err := entry.Render(style)
	if err != nil {
		return fmt.Errorf("render issue %d: %w", svcErr.IssueID, err)
	}
	fmt.Fprint(w, rendered)
	return nil
}

// loadIssue maps a VFS load error to its catalog entry.
func loadIssue(err error) issue.Id {
	switch {
	case errors.Is(err, vfs.ErrFileNotFound):
		return issue.VFSNotFoundId
	case errors.Is(err, vfs.ErrUnreadable):
		return issue.VFSUnreadableId
	case errors.Is(err, vfs.ErrMalformedDocument):
		return issue.VFSMalformedId
	case errors.Is(err, vfs.ErrInvalidStructure):
		return issue.VFSInvalidStructureId
	default:
		return 0
	}
}
