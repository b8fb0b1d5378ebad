// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"errors"
	"testing"

	"github.com/vfsh/vfsh/internal/vfs"
)

func TestLs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cwd     string
		args    []string
		want    string
		wantErr string
	}{
		{name: "root directories before files", args: nil, want: "bin/ docs/ home/ readme.txt\n"},
		{name: "explicit path", args: []string{"/docs"}, want: "empty/ notes.txt poem.txt\n"},
		{name: "flags ignored", args: []string{"-la", "/docs"}, want: "empty/ notes.txt poem.txt\n"},
		{name: "relative to cwd", cwd: "/docs", args: []string{"../home"}, want: "user/\n"},
		{name: "defaults to cwd", cwd: "/docs", want: "empty/ notes.txt poem.txt\n"},
		{name: "empty directory", args: []string{"/docs/empty"}, want: ""},
		{name: "missing", args: []string{"/nope"}, wantErr: "No such file or directory"},
		{name: "file", args: []string{"/readme.txt"}, wantErr: "Not a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := testEnv(testTree())
			if tt.cwd != "" {
				if _, err := run(t, env, "cd", tt.cwd); err != nil {
					t.Fatalf("cd %s: %v", tt.cwd, err)
				}
			}

			got, err := run(t, env, "ls", tt.args...)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("ls error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ls error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ls = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLsFallbackRoot(t *testing.T) {
	t.Parallel()

	got, err := run(t, testEnv(vfs.Fallback()), "ls", "/")
	if err != nil {
		t.Fatalf("ls / on fallback tree: %v", err)
	}
	if got != "" {
		t.Errorf("ls / = %q, want empty", got)
	}
}

func TestLsErrorKinds(t *testing.T) {
	t.Parallel()

	env := testEnv(testTree())
	if _, err := run(t, env, "ls", "/nope"); !errors.Is(err, vfs.ErrNotFound) {
		t.Errorf("ls /nope error = %v, want vfs.ErrNotFound", err)
	}
	if _, err := run(t, env, "ls", "/readme.txt"); !errors.Is(err, ErrNotADirectory) {
		t.Errorf("ls /readme.txt error = %v, want ErrNotADirectory", err)
	}
}
