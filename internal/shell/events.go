// SPDX-License-Identifier: MPL-2.0

package shell

import "context"

// Event is the output of one submitted line.
type Event struct {
	// Line is the submitted command line.
	Line string
	// Result is the dispatcher's result for Line.
	Result Result
	// Err is a *FatalError or a context error. Result is zero when Err is set.
	Err error
}

// Serve executes lines in submission order and emits one Event per line. The
// returned channel is closed after an exit command, when lines is closed, or
// when ctx is done. A fatal line is reported and serving continues.
func (s *Shell) Serve(ctx context.Context, lines <-chan string) <-chan Event {
	events := make(chan Event)
	go func() {
		defer close(events)
		for {
			var line string
			var ok bool
			select {
			case <-ctx.Done():
				return
			case line, ok = <-lines:
				if !ok {
					return
				}
			}

			res, err := s.Execute(ctx, line)
			select {
			case events <- Event{Line: line, Result: res, Err: err}:
			case <-ctx.Done():
				return
			}
			if res.Exit {
				return
			}
		}
	}()
	return events
}
