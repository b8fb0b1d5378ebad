// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vfsh/vfsh/internal/config"
	"github.com/vfsh/vfsh/internal/issue"
	"github.com/vfsh/vfsh/internal/sshserver"
	"github.com/vfsh/vfsh/internal/watch"

	"github.com/spf13/cobra"
)

// errWatchWithoutDocument is returned for --watch without a document path.
var errWatchWithoutDocument = errors.New("--watch needs a VFS document (--vfs or vfs.path)")

type serveOptions struct {
	host  string
	port  int
	watch bool
}

func newServeCommand(app *App) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve vfsh shells over SSH",
		Long: `Serve vfsh shells over SSH.

Every SSH session gets its own shell and working directory over the current
tree. With --watch the document is reloaded when it changes; sessions opened
afterwards see the new tree while open sessions keep theirs.

Password authentication is enabled by setting ssh.password in the config
file or VFSH_SSH_PASSWORD. Without it every client is accepted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("host") {
				opts.host = app.cfg.SSH.Host
			}
			if !cmd.Flags().Changed("port") {
				opts.port = int(app.cfg.SSH.Port)
			}
			return serve(cmd, app, opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "127.0.0.1", "address to listen on")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 2222, "port to listen on (0 picks a free port)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "reload the VFS document when it changes")

	return cmd
}

func serve(cmd *cobra.Command, app *App, opts serveOptions) error {
	ctx := cmd.Context()

	if valid, errs := config.ListenPort(opts.port).IsValid(); !valid {
		return errs[0]
	}
	if opts.watch && app.documentPath() == "" {
		return errWatchWithoutDocument
	}

	src := app.openSource()

	keyPath, err := app.cfg.HostKeyPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(keyPath), 0o700); err != nil {
		return fmt.Errorf("failed to create host key directory: %w", err)
	}

	srv, err := sshserver.New(sshserver.Config{
		Host:             opts.host,
		Port:             opts.port,
		HostKeyPath:      keyPath,
		Password:         app.cfg.SSH.Password,
		Hostname:         app.cfg.Shell.Hostname,
		DisableExpansion: !app.cfg.Shell.EnableExpansion,
		ShutdownTimeout:  app.cfg.SSH.ShutdownTimeout,
	}, src, sshserver.WithLogger(app.logger.WithPrefix("ssh-server")))
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(opts.host, strconv.Itoa(opts.port))
	if err := srv.Start(ctx); err != nil {
		return issue.NewErrorContext().
			WithOperation("start SSH server").
			WithResource(addr).
			WithIssue(issue.SSHServerStartFailedId).
			WithSuggestion("Try another port with --port").
			Wrap(err).
			BuildError()
	}
	defer func() {
		if err := srv.Stop(); err != nil {
			app.logger.Error("failed to stop SSH server", "error", err)
		}
	}()

	fmt.Fprintf(app.stdout, "%s ssh://%s\n", SuccessStyle.Render("Serving on"), srv.Address())

	watchErr := make(chan error, 1)
	if opts.watch {
		w, err := watch.New(watch.Config{
			Path:     src.Path(),
			Ignore:   app.cfg.Watch.Ignore,
			Debounce: app.cfg.Watch.Debounce,
			OnChange: watch.ReloadOnChange(src, app.logger.WithPrefix("watch")),
			Logger:   app.logger.WithPrefix("watch"),
		})
		if err != nil {
			return err
		}
		go func() { watchErr <- w.Run(ctx) }()
		fmt.Fprintf(app.stdout, "%s %s\n", SubtitleStyle.Render("Watching"), src.Path())
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-srv.Err():
			if ok && err != nil {
				return fmt.Errorf("SSH server failed: %w", err)
			}
			return nil
		case err := <-watchErr:
			// The server keeps running on the last good tree.
			if err != nil {
				app.logger.Error("document watching stopped", "error", err)
			}
			watchErr = nil
		}
	}
}
