// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"context"
	"slices"
	"strings"

	"github.com/vfsh/vfsh/internal/vfs"
)

// tacCommand prints a file with its lines in reverse order.
type tacCommand struct {
	name string
}

func init() {
	registerDefault(&tacCommand{name: "tac"})
}

// Name returns the command name.
func (c *tacCommand) Name() string {
	return c.name
}

// SupportedFlags returns nil; tac takes no flags.
func (c *tacCommand) SupportedFlags() []FlagInfo {
	return nil
}

// Run reverses the lines of the named file. A trailing newline in the file
// yields an empty last segment, which ends up as a leading blank line.
func (c *tacCommand) Run(_ context.Context, env *Env, args []string) (string, error) {
	f, err := operandFile(env, args)
	if err != nil {
		return "", err
	}
	return reverseLines(f.Content()), nil
}

func reverseLines(content string) string {
	lines := strings.Split(content, "\n")
	slices.Reverse(lines)
	return strings.Join(lines, "\n") + "\n"
}

// operandFile resolves the first argument to a file.
func operandFile(env *Env, args []string) (*vfs.File, error) {
	if len(args) == 0 {
		return nil, missingOperand()
	}
	raw := args[0]
	n, _, err := env.resolve(raw)
	if err != nil {
		return nil, noSuchFile(raw, nil)
	}
	f, ok := n.(*vfs.File)
	if !ok {
		return nil, noSuchFile(raw, n)
	}
	return f, nil
}
