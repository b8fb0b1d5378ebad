// SPDX-License-Identifier: MPL-2.0

//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package host

import (
	"os"
	"runtime"

	"github.com/vfsh/vfsh/pkg/platform"
)

// uname approximates uname(1) from the Go runtime on platforms without the
// syscall. Release and version are unknown.
func uname() (Uname, error) {
	node, err := os.Hostname()
	if err != nil {
		node = "localhost"
	}
	return Uname{
		Sysname:  platform.SysName(runtime.GOOS),
		Nodename: node,
		Machine:  runtime.GOARCH,
	}, nil
}
