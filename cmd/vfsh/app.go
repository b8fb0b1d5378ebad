// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vfsh/vfsh/internal/config"
	"github.com/vfsh/vfsh/internal/host"
	"github.com/vfsh/vfsh/internal/shell"
	"github.com/vfsh/vfsh/internal/vfs"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared state. Every command handler
	// receives the App and reads configuration, streams and the logger
	// through it.
	App struct {
		Config config.Provider

		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer

		// Flag values.
		verbose bool
		cfgFile string
		vfsPath string

		cfg    *config.Config
		logger *log.Logger
	}

	// Dependencies are the injection points for NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config config.Provider
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}
)

// NewApp creates an App from deps.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		stdin:  deps.Stdin,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	app.cfg = config.DefaultConfig()
	app.logger = newLogger(app.stderr, log.WarnLevel)
	return app
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix: "vfsh",
		Level:  level,
	})
}

// loadConfig loads configuration and sets up logging. An explicit --config
// that cannot be used is an error; a broken default config file only warns
// and falls back to defaults.
func (a *App) loadConfig(ctx context.Context) error {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.cfgFile})
	if err != nil {
		if a.cfgFile != "" {
			return err
		}
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.verbose))
		cfg = config.DefaultConfig()
	}

	a.cfg = cfg
	if !a.verbose {
		a.verbose = cfg.UI.Verbose
	}

	level := log.DebugLevel
	if !a.verbose {
		if level, err = log.ParseLevel(string(cfg.Log.Level)); err != nil {
			level = log.WarnLevel
		}
	}
	a.logger = newLogger(a.stderr, level)
	a.logger.Debug("configuration loaded", "color_scheme", cfg.UI.ColorScheme, "log_level", cfg.Log.Level)
	return nil
}

// documentPath is the --vfs flag, or vfs.path from the configuration.
func (a *App) documentPath() string {
	if a.vfsPath != "" {
		return a.vfsPath
	}
	return a.cfg.VFS.Path
}

// openSource loads the document and reports the outcome once on stderr.
// Load failures are not fatal: the source then holds the empty tree.
func (a *App) openSource() *vfs.Source {
	path := a.documentPath()
	if path == "" {
		a.logger.Debug(vfs.Status("", nil))
		return vfs.StaticSource(vfs.Fallback())
	}

	src, err := vfs.NewSource(path)
	a.reportLoad(path, err)
	if err == nil {
		dirs, files := src.Tree().Stats()
		a.logger.Info("VFS loaded", "path", path, "dirs", dirs, "files", files)
	}
	return src
}

func (a *App) reportLoad(path string, err error) {
	status := vfs.Status(path, err)
	if err == nil {
		fmt.Fprintln(a.stderr, SubtitleStyle.Render(status))
		return
	}

	fmt.Fprintln(a.stderr, WarningStyle.Render(status))
	if !a.verbose {
		return
	}
	svcErr := newServiceError(err, loadIssue(err), "")
	if renderErr := renderServiceError(a.stderr, svcErr, a.markdownStyle()); renderErr != nil {
		a.logger.Warn("failed to render issue", "error", renderErr)
	}
}

// newShell creates a shell over tree for the local machine.
func (a *App) newShell(tree *vfs.Tree) *shell.Shell {
	return shell.New(
		tree,
		host.System(a.cfg.Shell.Hostname),
		shell.WithLogger(a.logger.WithPrefix("shell")),
		shell.WithArgumentExpansion(a.cfg.Shell.EnableExpansion),
	)
}

// markdownStyle is the glamour style matching the configured color scheme.
func (a *App) markdownStyle() string {
	if a.cfg.UI.ColorScheme == "" {
		return string(config.ColorSchemeAuto)
	}
	return string(a.cfg.UI.ColorScheme)
}
