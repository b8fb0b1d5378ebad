// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/vfsh/vfsh/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `vfsh config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vfsh configuration",
		Long: `Manage vfsh configuration.

Configuration is stored in:
  - Linux: ~/.config/vfsh/config.cue
  - macOS: ~/Library/Application Support/vfsh/config.cue
  - Windows: %APPDATA%\vfsh\config.cue

A config.cue in the current directory is used when the user file is absent.
Every setting can be overridden with VFSH_<SECTION>_<KEY>, for example
VFSH_SSH_PORT=2022.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			showConfig(app)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return initConfig(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Fprint(app.stdout, config.GenerateCUE(app.cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(app *App) {
	cfg := app.cfg
	key := CmdStyle.Render
	val := SuccessStyle.Render
	none := SubtitleStyle.Render

	w := app.stdout
	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s: %s\n", key("Config file"), configSource(app))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s:\n", key("vfs"))
	fmt.Fprintf(w, "  path: %s\n", orNone(cfg.VFS.Path, val, none))

	fmt.Fprintf(w, "%s:\n", key("shell"))
	fmt.Fprintf(w, "  hostname: %s\n", orNone(cfg.Shell.Hostname, val, none))
	fmt.Fprintf(w, "  enable_expansion: %s\n", val(fmt.Sprint(cfg.Shell.EnableExpansion)))

	fmt.Fprintf(w, "%s:\n", key("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", val(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", val(fmt.Sprint(cfg.UI.Verbose)))

	password := ""
	if cfg.SSH.Password != "" {
		password = "(set)"
	}
	fmt.Fprintf(w, "%s:\n", key("ssh"))
	fmt.Fprintf(w, "  host: %s\n", val(cfg.SSH.Host))
	fmt.Fprintf(w, "  port: %s\n", val(cfg.SSH.Port.String()))
	fmt.Fprintf(w, "  host_key_path: %s\n", orNone(cfg.SSH.HostKeyPath, val, none))
	fmt.Fprintf(w, "  password: %s\n", orNone(password, val, none))
	fmt.Fprintf(w, "  shutdown_timeout: %s\n", val(cfg.SSH.ShutdownTimeout.String()))

	fmt.Fprintf(w, "%s:\n", key("watch"))
	fmt.Fprintf(w, "  debounce: %s\n", val(cfg.Watch.Debounce.String()))
	fmt.Fprintf(w, "  ignore: %s\n", orNone(strings.Join(cfg.Watch.Ignore, ", "), val, none))

	fmt.Fprintf(w, "%s:\n", key("log"))
	fmt.Fprintf(w, "  level: %s\n", val(cfg.Log.Level.String()))
}

// configSource names the file that would have been read.
func configSource(app *App) string {
	if app.cfgFile != "" {
		return app.cfgFile
	}
	path, err := config.FilePath()
	if err == nil && fileExists(path) {
		return path
	}
	local := config.ConfigFileName + "." + config.ConfigFileExt
	if fileExists(local) {
		return local
	}
	return SubtitleStyle.Render("(using defaults)")
}

func orNone(s string, val, none func(...string) string) string {
	if s == "" {
		return none("(none)")
	}
	return val(s)
}

func showConfigPath(app *App) error {
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	path, err := config.FilePath()
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "Config directory: %s\n", dir)
	fmt.Fprintf(app.stdout, "Config file: %s\n", path)
	return nil
}

func initConfig(app *App) error {
	path, created, err := config.CreateDefaultConfig()
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if !created {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
