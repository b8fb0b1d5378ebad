// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/vfsh/vfsh/pkg/types"
)

// ErrScriptNotFound is wrapped by RunScript when the script file is missing.
var ErrScriptNotFound = errors.New("script not found")

// ScriptResult summarizes a script run.
type ScriptResult struct {
	// Executed counts the lines passed to the dispatcher.
	Executed int
	// Exited is set when the script ran the exit command.
	Exited bool
	// Code is the status requested by exit.
	Code types.ExitCode
}

// RunScript reads the script at path and executes its lines in order,
// writing banners, a synthetic prompt per executed line and the output to w.
// Blank lines and lines starting with "#" are skipped silently.
//
// A missing file or a fatal line is reported to w as one error line and
// returned; the run stops there and no closing banner is written.
func RunScript(ctx context.Context, sh *Shell, path string, w io.Writer) (ScriptResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%s: %w", path, ErrScriptNotFound)
			fmt.Fprintf(w, "ERROR: script not found: %s\n", path)
			return ScriptResult{}, err
		}
		fmt.Fprintf(w, "ERROR while running script: %v\n", err)
		return ScriptResult{}, err
	}
	return RunLines(ctx, sh, path, bytes.NewReader(data), w)
}

// RunLines is RunScript over an already opened script. name is used in the
// banners.
func RunLines(ctx context.Context, sh *Shell, name string, r io.Reader, w io.Writer) (ScriptResult, error) {
	var res ScriptResult

	fmt.Fprintf(w, "\n=== RUNNING SCRIPT: %s ===\n", name)

	br := bufio.NewReader(r)
	for {
		raw, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			fmt.Fprintf(w, "ERROR while running script: %v\n", readErr)
			return res, readErr
		}

		if line := strings.TrimSpace(raw); line != "" && !strings.HasPrefix(line, "#") {
			fmt.Fprintln(w, sh.Prompt(line))
			out, err := sh.Execute(ctx, line)
			res.Executed++
			if err != nil {
				fmt.Fprintf(w, "ERROR while running script: %v\n", err)
				return res, err
			}
			io.WriteString(w, out.Output) //nolint:errcheck // best-effort display
			if out.Exit {
				res.Exited, res.Code = true, out.Code
				return res, nil
			}
		}

		if readErr != nil {
			break
		}
	}

	fmt.Fprint(w, "=== SCRIPT FINISHED ===\n\n")
	return res, nil
}
