// SPDX-License-Identifier: MPL-2.0

// Package host exposes the pieces of the host machine the shell may observe:
// environment variables, uname information and the host name. Everything else
// the shell does runs against the virtual filesystem.
package host
