// SPDX-License-Identifier: MPL-2.0

// Package types holds small value types shared by the shell, the CLI and the
// SSH server. It imports only the standard library.
package types
