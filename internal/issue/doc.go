// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error reporting for the vfsh CLI.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions for fixing the problem. Issues in the catalog add longer
// Markdown guidance that the CLI renders with glamour.
package issue
