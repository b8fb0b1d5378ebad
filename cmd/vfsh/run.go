// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"github.com/vfsh/vfsh/internal/issue"
	"github.com/vfsh/vfsh/internal/shell"

	"github.com/spf13/cobra"
)

func newRunCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run <script>",
		Short: "Run a script against the VFS and exit",
		Long: `Run a script against the VFS and exit.

Each non-blank line that does not start with '#' is echoed after a prompt and
executed. The run is framed by start and end banners. A missing script or a
fatal line (such as 'error') stops the run and exits with status 1; 'exit N'
stops it with status N.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, app, args[0])
		},
	}
}

func runScript(cmd *cobra.Command, app *App, path string) error {
	ctx := cmd.Context()
	sh := app.newShell(app.openSource().Tree())

	res, err := shell.RunScript(ctx, sh, path, app.stdout)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// The failure is already on stdout; the catalog entry is extra help.
		if app.verbose {
			id := issue.ScriptAbortedId
			if errors.Is(err, shell.ErrScriptNotFound) {
				id = issue.ScriptNotFoundId
			}
			if renderErr := renderServiceError(app.stderr, newServiceError(err, id, ""), app.markdownStyle()); renderErr != nil {
				app.logger.Warn("failed to render issue", "error", renderErr)
			}
		}
		return exitWith(cmd, 1)
	}

	app.logger.Debug("script finished", "path", path, "executed", res.Executed)
	if res.Exited {
		return exitWith(cmd, res.Code)
	}
	return nil
}
