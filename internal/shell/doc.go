// SPDX-License-Identifier: MPL-2.0

// Package shell implements the command dispatcher of the virtual shell and
// its two execution modes.
//
// A Shell owns one session (the working directory) over an immutable VFS
// tree. Execute runs a single command line; Serve turns a stream of submitted
// lines into a stream of output events so that front-ends never call into the
// dispatcher concurrently. RunScript feeds the lines of a script file through
// the same dispatcher, and Interactive drives a terminal.Terminal.
package shell
