// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands for vfsh.
//
// The root command loads a VFS document, optionally runs a script and then
// starts the interactive shell. Subcommands run scripts in batch mode, serve
// shells over SSH, report the document status and manage configuration.
package cmd
