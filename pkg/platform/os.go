// SPDX-License-Identifier: MPL-2.0

package platform

import "strings"

// GOOS values compared against runtime.GOOS.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// sysNames holds the uname -s spelling for systems whose name is not just
// the capitalized GOOS value.
var sysNames = map[string]string{
	Windows:   "Windows_NT",
	Darwin:    "Darwin",
	Linux:     "Linux",
	"freebsd": "FreeBSD",
	"netbsd":  "NetBSD",
	"openbsd": "OpenBSD",
	"illumos": "SunOS",
	"solaris": "SunOS",
	"aix":     "AIX",
}

// SysName returns the kernel name uname -s prints for goos.
// Unknown systems get their GOOS value with the first letter capitalized.
func SysName(goos string) string {
	if name, ok := sysNames[goos]; ok {
		return name
	}
	if goos == "" {
		return ""
	}
	return strings.ToUpper(goos[:1]) + goos[1:]
}
