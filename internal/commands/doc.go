// SPDX-License-Identifier: MPL-2.0

// Package commands implements the built-in commands of the virtual shell.
//
// Every command reads the immutable VFS tree handed to it through an Env and
// returns its output as text. None of them touch the real filesystem. The only
// state a command may change is the session's working directory, and only cd
// does so.
//
// # Supported Commands
//
//   - ls: list a directory, directories first
//   - cd: change the working directory
//   - tac: print a file with its lines reversed
//   - wc: count lines, words and characters of a file
//   - uname: print host identification
//
// # Errors
//
// Ordinary misuse never aborts the shell. Commands return a *UsageError for a
// missing operand or an unknown flag and a *ResolutionError when a path does
// not resolve to the kind of node required. The error text is the user-facing
// message without the command name; the dispatcher adds the prefix.
package commands
