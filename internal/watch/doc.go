// SPDX-License-Identifier: MPL-2.0

// Package watch reloads the VFS document when it changes on disk.
//
// A Watcher monitors the directory holding the document, so editors that
// save through a temporary file and a rename are seen too. Events for the
// document within the debounce window are coalesced into one callback.
package watch
