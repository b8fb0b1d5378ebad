// SPDX-License-Identifier: MPL-2.0

// Package sshserver serves vfsh shells over SSH using the Wish library.
//
// Every SSH session gets its own shell over the tree that is current when the
// session opens. Sessions with a PTY get a line editor, sessions with a
// command run that single line and exit with its status, and the remaining
// sessions read plain lines from the channel.
package sshserver
