// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"errors"
	"fmt"
)

// ErrTestError is the cause carried by the FatalError of the error command.
var ErrTestError = errors.New("test error")

// FatalError reports a condition that aborts the current script run. In
// interactive mode it is reported for the offending line and the session
// continues.
type FatalError struct {
	Line string
	Err  error
}

// Error implements the error interface.
func (e *FatalError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err is or wraps a *FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

func recoveredFatal(line string, r any) *FatalError {
	if err, ok := r.(error); ok {
		return &FatalError{Line: line, Err: fmt.Errorf("panic: %w", err)}
	}
	return &FatalError{Line: line, Err: fmt.Errorf("panic: %v", r)}
}
