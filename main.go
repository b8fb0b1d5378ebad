// SPDX-License-Identifier: MPL-2.0

// vfsh is a Unix-like shell over a JSON virtual filesystem.
package main

import cmd "github.com/vfsh/vfsh/cmd/vfsh"

func main() {
	cmd.Execute()
}
