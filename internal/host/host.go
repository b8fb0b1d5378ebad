// SPDX-License-Identifier: MPL-2.0

package host

import (
	"maps"
	"os"
	"strings"
)

type (
	// Host is the read-only view of the machine the shell runs on.
	Host interface {
		// LookupEnv returns the value of an environment variable and whether
		// it is set.
		LookupEnv(name string) (string, bool)
		// Uname returns system identification.
		Uname() (Uname, error)
		// Hostname returns the node name used in the synthetic prompt.
		Hostname() string
	}

	// Uname mirrors the fields printed by uname(1).
	Uname struct {
		Sysname  string
		Nodename string
		Release  string
		Version  string
		Machine  string
	}

	// Static is a fixed Host. The zero value has an empty environment.
	Static struct {
		Env   map[string]string
		Info  Uname
		Name  string
		Error error
	}

	systemHost struct {
		hostname string
	}
)

// All returns the fields in uname -a order.
func (u Uname) All() string {
	fields := make([]string, 0, 5)
	for _, f := range []string{u.Sysname, u.Nodename, u.Release, u.Version, u.Machine} {
		if f != "" {
			fields = append(fields, f)
		}
	}
	return strings.Join(fields, " ")
}

// System returns the Host backed by the running process. hostname overrides
// the reported node name when non-empty.
func System(hostname string) Host {
	return &systemHost{hostname: hostname}
}

func (h *systemHost) LookupEnv(name string) (string, bool) {
	return os.LookupEnv(name)
}

func (h *systemHost) Uname() (Uname, error) {
	u, err := uname()
	if err != nil {
		return Uname{}, err
	}
	if h.hostname != "" {
		u.Nodename = h.hostname
	}
	return u, nil
}

func (h *systemHost) Hostname() string {
	if h.hostname != "" {
		return h.hostname
	}
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "localhost"
	}
	return name
}

// NewStatic returns a Static host that snapshots env. Later changes to env are
// not visible through the host.
func NewStatic(name string, info Uname, env map[string]string) *Static {
	if info.Nodename == "" {
		info.Nodename = name
	}
	return &Static{Env: maps.Clone(env), Info: info, Name: name}
}

// LookupEnv implements Host.
func (s *Static) LookupEnv(name string) (string, bool) {
	v, ok := s.Env[name]
	return v, ok
}

// Uname implements Host.
func (s *Static) Uname() (Uname, error) {
	if s.Error != nil {
		return Uname{}, s.Error
	}
	return s.Info, nil
}

// Hostname implements Host.
func (s *Static) Hostname() string {
	if s.Name == "" {
		return "localhost"
	}
	return s.Name
}
