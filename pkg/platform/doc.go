// SPDX-License-Identifier: MPL-2.0

// Package platform names the operating systems vfsh distinguishes between
// and maps Go's GOOS values onto the names uname(1) reports.
package platform
