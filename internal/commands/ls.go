// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"context"
	"strings"

	"github.com/vfsh/vfsh/internal/vfs"
)

// lsCommand lists the children of a directory.
type lsCommand struct {
	name string
}

func init() {
	registerDefault(&lsCommand{name: "ls"})
}

// Name returns the command name.
func (c *lsCommand) Name() string {
	return c.name
}

// SupportedFlags returns nil. Flag-looking tokens are accepted but have no
// effect.
func (c *lsCommand) SupportedFlags() []FlagInfo {
	return nil
}

// Run lists the target directory, the working directory by default.
// Directories come first with a trailing "/", then files; each group sorted.
func (c *lsCommand) Run(_ context.Context, env *Env, args []string) (string, error) {
	target := ""
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		target = arg
		break
	}
	if target == "" {
		target = env.Session.Cwd()
	}

	n, abs, err := env.resolve(target)
	if err != nil {
		return "", &ResolutionError{Kind: NotFound, Path: abs, Message: "No such file or directory"}
	}
	dir, ok := n.(*vfs.Directory)
	if !ok {
		return "", &ResolutionError{Kind: NotADirectory, Path: abs, Message: "Not a directory"}
	}
	return listing(dir), nil
}

func listing(dir *vfs.Directory) string {
	if dir.Len() == 0 {
		return ""
	}

	var dirs, files []string
	for _, name := range dir.Names() {
		child, _ := dir.Child(name)
		switch child.(type) {
		case *vfs.Directory:
			dirs = append(dirs, name+vfs.Separator)
		case *vfs.File:
			files = append(files, name)
		}
	}
	return strings.Join(append(dirs, files...), " ") + "\n"
}
