// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/vfsh/vfsh/internal/terminal"
	"github.com/vfsh/vfsh/pkg/types"
)

// Interactive reads lines from term until exit, end of input or ctx is done.
// It returns the status requested by exit, or 0. Fatal lines are reported and
// the session continues.
func Interactive(ctx context.Context, sh *Shell, term terminal.Terminal) (types.ExitCode, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	next := make(chan struct{}, 1)
	next <- struct{}{}

	// The reader waits for the previous line's output before reading the
	// next one so that a line editor never redraws over pending output.
	go func() {
		defer close(lines)
		for {
			select {
			case <-ctx.Done():
				return
			case <-next:
			}
			line, err := term.ReadLine()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					readErr <- err
				}
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
	}()

	for ev := range sh.Serve(ctx, lines) {
		if term.EchoesPrompt() {
			fmt.Fprintln(term, sh.Prompt(ev.Line))
		}
		switch {
		case IsFatal(ev.Err):
			fmt.Fprintf(term, "ERROR: %v\n", ev.Err)
		case ev.Err != nil:
			return 0, ev.Err
		default:
			io.WriteString(term, ev.Result.Output) //nolint:errcheck // best-effort display
		}
		if ev.Result.Exit {
			return ev.Result.Code, nil
		}
		next <- struct{}{}
	}

	select {
	case err := <-readErr:
		return 0, fmt.Errorf("reading input: %w", err)
	default:
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return 0, nil
}
