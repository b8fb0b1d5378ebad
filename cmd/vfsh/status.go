// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/vfsh/vfsh/internal/vfs"

	"github.com/spf13/cobra"
)

func newStatusCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the VFS document",
		Long: `Load the VFS document and print its status line.

A loaded document is followed by directory and file counts. A document that
cannot be loaded exits with status 1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showStatus(cmd, app)
		},
	}
}

func showStatus(cmd *cobra.Command, app *App) error {
	path := app.documentPath()
	if path == "" {
		fmt.Fprintln(app.stdout, vfs.Status("", nil))
		return nil
	}

	tree, err := vfs.Load(path)
	if err != nil {
		fmt.Fprintln(app.stdout, vfs.Status(path, err))
		if app.verbose {
			if renderErr := renderServiceError(app.stderr, newServiceError(err, loadIssue(err), ""), app.markdownStyle()); renderErr != nil {
				app.logger.Warn("failed to render issue", "error", renderErr)
			}
		}
		return exitWith(cmd, 1)
	}

	dirs, files := tree.Stats()
	fmt.Fprintln(app.stdout, vfs.Status(path, nil))
	fmt.Fprintf(app.stdout, "%s %d\n", CmdStyle.Render("Directories:"), dirs)
	fmt.Fprintf(app.stdout, "%s %d\n", CmdStyle.Render("Files:"), files)
	return nil
}
