// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vfsh/vfsh/internal/issue"
	"github.com/vfsh/vfsh/internal/shell"
	"github.com/vfsh/vfsh/internal/terminal"
	"github.com/vfsh/vfsh/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the command tree around app.
func newRootCommand(app *App) *cobra.Command {
	var scriptPath string

	rootCmd := &cobra.Command{
		Use:   "vfsh",
		Short: "A Unix-like shell over a JSON virtual filesystem",
		Long: TitleStyle.Render("vfsh") + SubtitleStyle.Render(" - a Unix-like shell over a JSON virtual filesystem") + `

vfsh loads a directory tree from a JSON document and lets you explore it
with ls, cd, tac, wc and uname. Nothing on the real filesystem is touched.

` + SubtitleStyle.Render("Examples:") + `
  vfsh --vfs tree.json                   Start the interactive shell
  vfsh --vfs tree.json --script demo.txt Run a script, then go interactive
  vfsh run demo.txt --vfs tree.json      Run a script and exit
  vfsh serve --vfs tree.json --watch     Serve shells over SSH
  vfsh status --vfs tree.json            Check a document`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.loadConfig(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRoot(cmd, app, scriptPath)
		},
	}

	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/vfsh/config.cue)")
	rootCmd.PersistentFlags().StringVar(&app.vfsPath, "vfs", "", "JSON document backing the virtual filesystem")
	rootCmd.Flags().StringVar(&scriptPath, "script", "", "script to run before the interactive shell starts")

	rootCmd.AddCommand(newRunCommand(app))
	rootCmd.AddCommand(newServeCommand(app))
	rootCmd.AddCommand(newStatusCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// runRoot runs the optional script and then the interactive shell in the
// same session. A failed script is reported and the shell still starts; an
// exit in the script ends the process.
func runRoot(cmd *cobra.Command, app *App, scriptPath string) error {
	ctx := cmd.Context()
	sh := app.newShell(app.openSource().Tree())

	if scriptPath != "" {
		res, err := shell.RunScript(ctx, sh, scriptPath, app.stdout)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			app.logger.Debug("script failed", "path", scriptPath, "error", err)
		}
		if res.Exited {
			return exitWith(cmd, res.Code)
		}
	}

	code, err := app.interactive(ctx, sh)
	if err != nil {
		return err
	}
	return exitWith(cmd, code)
}

// interactive runs the REPL on stdin: a line editor when stdin and stdout
// are terminals, plain lines otherwise.
func (a *App) interactive(ctx context.Context, sh *shell.Shell) (types.ExitCode, error) {
	in, inOK := a.stdin.(*os.File)
	out, outOK := a.stdout.(*os.File)
	if inOK && outOK && terminal.IsTerminal(in) && terminal.IsTerminal(out) {
		tty, restore, err := terminal.OpenLocal(in, out, sh.PromptPrefix())
		if err != nil {
			return 0, err
		}
		defer func() {
			if err := restore(); err != nil {
				a.logger.Warn("failed to restore terminal", "error", err)
			}
		}()
		return shell.Interactive(ctx, sh, tty)
	}
	return shell.Interactive(ctx, sh, terminal.NewLines(a.stdin, a.stdout))
}

// exitWith turns a non-zero status into a silent ExitError.
func exitWith(cmd *cobra.Command, code types.ExitCode) error {
	if code == 0 {
		return nil
	}
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: code}
}

func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits the process with the resulting status.
// It is called by main.main.
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := newRootCommand(app)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// handleError prints err unless it is a bare exit status. Actionable errors
// get their suggestions, and in verbose mode their catalog entry; other
// errors use fang's default rendering.
func (a *App) handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		fang.DefaultErrorHandler(w, styles, err)
		return
	}

	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+ae.Format(a.verbose))
	if a.verbose && ae.Issue != 0 {
		if renderErr := renderServiceError(w, newServiceError(err, ae.Issue, ""), a.markdownStyle()); renderErr != nil {
			a.logger.Warn("failed to render issue", "error", renderErr)
		}
	}
}

// formatErrorForDisplay uses ActionableError.Format when available. In
// verbose mode the full error chain is shown.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
