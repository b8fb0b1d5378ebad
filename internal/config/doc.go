// SPDX-License-Identifier: MPL-2.0

// Package config handles vfsh configuration using Viper with CUE as the file
// format.
//
// Configuration is loaded from ~/.config/vfsh/config.cue (or the XDG
// equivalent on Linux, ~/Library/Application Support/vfsh/config.cue on
// macOS, %APPDATA%\vfsh\config.cue on Windows), falling back to ./config.cue.
// Files are validated against the embedded #Config schema before being merged
// over the defaults. Every key can be overridden from the environment with the
// VFSH_ prefix, dots replaced by underscores (e.g. VFSH_SSH_PORT).
package config
