// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE helpers for the config and VFS loaders.
//
// Both loaders follow the same flow:
//
//  1. Compile the embedded schema and look up its root definition
//  2. Build the user data (CUE source or extracted JSON) and unify with the schema
//  3. Validate and walk or decode the unified value
//
// Errors produced along the way are rewritten by FormatError so that users see
// the file name and a JSON-style path to the offending field.
package cueutil
