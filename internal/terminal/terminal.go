// SPDX-License-Identifier: MPL-2.0

// Package terminal provides the line-oriented front-ends the shell talks to:
// an interactive line editor for real terminals and a plain line reader for
// pipes and non-interactive SSH sessions.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type (
	// Terminal delivers one command line per ReadLine and displays the text
	// written to it. ReadLine returns io.EOF when no more input will arrive.
	Terminal interface {
		io.Writer
		ReadLine() (string, error)
		// EchoesPrompt reports whether the shell must print the synthetic
		// prompt itself. Line editors draw it as part of input.
		EchoesPrompt() bool
	}

	// TTY is a line editor with history on top of golang.org/x/term.
	TTY struct {
		term *term.Terminal
	}

	// Lines reads newline-separated input without any editing support.
	Lines struct {
		r *bufio.Reader
		w io.Writer
	}
)

// NewTTY creates a line editor reading keystrokes from rw and drawing prompt
// before each line. rw is expected to be in raw mode.
func NewTTY(rw io.ReadWriter, prompt string) *TTY {
	return &TTY{term: term.NewTerminal(rw, prompt)}
}

// OpenLocal puts in into raw mode and returns a TTY over in and out together
// with a function restoring the previous terminal state.
func OpenLocal(in, out *os.File, prompt string) (*TTY, func() error, error) {
	fd := int(in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	restore := func() error {
		return term.Restore(fd, state)
	}

	rw := struct {
		io.Reader
		io.Writer
	}{in, out}
	tty := NewTTY(rw, prompt)
	if w, h, err := term.GetSize(int(out.Fd())); err == nil {
		_ = tty.SetSize(w, h) //nolint:errcheck // size is advisory
	}
	return tty, restore, nil
}

// IsTerminal reports whether f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ReadLine reads one edited line.
func (t *TTY) ReadLine() (string, error) {
	return t.term.ReadLine()
}

// Write displays p, translating "\n" to "\r\n".
func (t *TTY) Write(p []byte) (int, error) {
	return t.term.Write(p)
}

// EchoesPrompt returns false: the editor draws the prompt itself.
func (t *TTY) EchoesPrompt() bool {
	return false
}

// SetSize updates the terminal dimensions after a window change.
func (t *TTY) SetSize(width, height int) error {
	return t.term.SetSize(width, height)
}

// NewLines creates a Terminal reading lines from r and writing to w.
func NewLines(r io.Reader, w io.Writer) *Lines {
	return &Lines{r: bufio.NewReader(r), w: w}
}

// ReadLine returns the next line without its terminator, or io.EOF.
func (l *Lines) ReadLine() (string, error) {
	line, err := l.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// Write writes p unchanged.
func (l *Lines) Write(p []byte) (int, error) {
	return l.w.Write(p)
}

// EchoesPrompt returns true: nothing else shows the prompt.
func (l *Lines) EchoesPrompt() bool {
	return true
}
