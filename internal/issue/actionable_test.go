// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableErrorMessage(t *testing.T) {
	t.Parallel()

	cause := errors.New("file not found")

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "load VFS document"},
			want: "failed to load VFS document",
		},
		{
			name: "with resource",
			err:  &ActionableError{Operation: "load VFS document", Resource: "vfs.json"},
			want: "failed to load VFS document: vfs.json",
		},
		{
			name: "with resource and cause",
			err:  &ActionableError{Operation: "load VFS document", Resource: "vfs.json", Cause: cause},
			want: "failed to load VFS document: vfs.json: file not found",
		},
		{
			name: "with cause only",
			err:  &ActionableError{Operation: "start SSH server", Cause: cause},
			want: "failed to start SSH server: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableErrorUnwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	err := NewErrorContext().
		WithOperation("run script").
		Wrap(fmt.Errorf("line 3: %w", sentinel)).
		BuildError()

	if !errors.Is(err, sentinel) {
		t.Error("errors.Is() should find the wrapped sentinel")
	}

	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatal("errors.As() should find *ActionableError")
	}
	if ae.Operation != "run script" {
		t.Errorf("Operation = %q, want %q", ae.Operation, "run script")
	}
}

func TestActionableErrorFormat(t *testing.T) {
	t.Parallel()

	inner := errors.New("unexpected end of JSON input")
	err := NewErrorContext().
		WithOperation("load VFS document").
		WithResource("vfs.json").
		WithSuggestion("Validate the file with a JSON linter").
		WithSuggestion("Look for trailing commas").
		Wrap(fmt.Errorf("malformed document: %w", inner)).
		Build()

	plain := err.Format(false)
	if !strings.Contains(plain, "• Validate the file with a JSON linter") {
		t.Errorf("Format(false) missing first suggestion: %q", plain)
	}
	if !strings.Contains(plain, "• Look for trailing commas") {
		t.Errorf("Format(false) missing second suggestion: %q", plain)
	}
	if strings.Contains(plain, "Error chain:") {
		t.Errorf("Format(false) should not include the error chain: %q", plain)
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") {
		t.Fatalf("Format(true) should include the error chain: %q", verbose)
	}
	if !strings.Contains(verbose, "1. malformed document: unexpected end of JSON input") {
		t.Errorf("Format(true) missing first chain entry: %q", verbose)
	}
	if !strings.Contains(verbose, "2. unexpected end of JSON input") {
		t.Errorf("Format(true) missing second chain entry: %q", verbose)
	}
}

func TestErrorContextBuild(t *testing.T) {
	t.Parallel()

	t.Run("no operation", func(t *testing.T) {
		t.Parallel()

		ctx := NewErrorContext().WithResource("vfs.json")
		if ctx.Build() != nil {
			t.Error("Build() without operation should return nil")
		}
		if err := ctx.BuildError(); err != nil {
			t.Errorf("BuildError() without operation = %v, want nil interface", err)
		}
	})

	t.Run("issue link", func(t *testing.T) {
		t.Parallel()

		ae := NewErrorContext().
			WithOperation("load configuration").
			WithIssue(ConfigLoadFailedId).
			Build()
		if ae.Issue != ConfigLoadFailedId {
			t.Errorf("Issue = %d, want %d", ae.Issue, ConfigLoadFailedId)
		}
		if Get(ae.Issue) == nil {
			t.Error("linked issue should exist in the catalog")
		}
	})
}
