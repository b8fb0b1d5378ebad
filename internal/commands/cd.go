// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"context"

	"github.com/vfsh/vfsh/internal/vfs"
)

// cdCommand changes the session's working directory.
type cdCommand struct {
	name string
}

func init() {
	registerDefault(&cdCommand{name: "cd"})
}

// Name returns the command name.
func (c *cdCommand) Name() string {
	return c.name
}

// SupportedFlags returns nil; cd takes no flags.
func (c *cdCommand) SupportedFlags() []FlagInfo {
	return nil
}

// Run moves to the given directory, or to the root without an argument. On
// failure the working directory is left unchanged.
func (c *cdCommand) Run(_ context.Context, env *Env, args []string) (string, error) {
	if len(args) == 0 {
		env.Session.Reset()
		return "", nil
	}

	raw := args[0]
	n, abs, err := env.resolve(raw)
	if err != nil {
		return "", &ResolutionError{Kind: NotFound, Path: abs, Message: "no such file or directory: " + raw}
	}
	if _, ok := n.(*vfs.Directory); !ok {
		return "", &ResolutionError{Kind: NotADirectory, Path: abs, Message: "not a directory: " + raw}
	}
	env.Session.chdir(abs)
	return "", nil
}
