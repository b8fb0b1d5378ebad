// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"context"
	"errors"
	"flag"
	"io"
	"strings"

	"github.com/vfsh/vfsh/internal/host"
)

// unameCommand prints host identification.
type unameCommand struct {
	name  string
	flags []FlagInfo
}

func init() {
	registerDefault(newUnameCommand())
}

func newUnameCommand() *unameCommand {
	return &unameCommand{
		name: "uname",
		flags: []FlagInfo{
			{Name: "a", Description: "print all information"},
			{Name: "s", Description: "print the kernel name"},
			{Name: "n", Description: "print the network node hostname"},
			{Name: "r", Description: "print the kernel release"},
			{Name: "v", Description: "print the kernel version"},
			{Name: "m", Description: "print the machine hardware name"},
		},
	}
}

// Name returns the command name.
func (c *unameCommand) Name() string {
	return c.name
}

// SupportedFlags returns the flags supported by this command.
func (c *unameCommand) SupportedFlags() []FlagInfo {
	return c.flags
}

// Run prints the selected fields in uname -a order. Without flags it prints
// the system name. Combined short flags such as -sn are accepted.
func (c *unameCommand) Run(_ context.Context, env *Env, args []string) (string, error) {
	fs := flag.NewFlagSet(c.name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	flags := make(map[byte]*bool)
	for _, f := range c.SupportedFlags() {
		flags[f.Name[0]] = fs.Bool(f.Name, false, f.Description)
	}

	if err := fs.Parse(splitShortFlags(args)); err != nil {
		return "", flagError(err)
	}
	if fs.NArg() > 0 {
		return "", usageErrorf("extra operand '%s'", fs.Arg(0))
	}

	selected := make(map[byte]bool)
	for name, set := range flags {
		if *set {
			selected[name] = true
		}
	}

	u, err := env.Host.Uname()
	if err != nil {
		return "", err
	}
	return render(u, selected) + "\n", nil
}

// splitShortFlags expands "-sn" into "-s", "-n" so the flag package sees one
// flag per token. Long flags, "-", "--" and operands pass through.
func splitShortFlags(args []string) []string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		if len(arg) <= 2 || arg[0] != '-' || arg[1] == '-' {
			out = append(out, arg)
			continue
		}
		for _, r := range arg[1:] {
			out = append(out, "-"+string(r))
		}
	}
	return out
}

// flagError maps flag package parse errors to GNU-style messages.
func flagError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return usageErrorf("invalid option -- 'h'")
	}
	if name, ok := strings.CutPrefix(err.Error(), "flag provided but not defined: -"); ok {
		return usageErrorf("invalid option -- '%s'", name)
	}
	return usageErrorf("%v", err)
}

func render(u host.Uname, selected map[byte]bool) string {
	if selected['a'] {
		return u.All()
	}
	if len(selected) == 0 {
		return u.Sysname
	}

	fields := []struct {
		flag  byte
		value string
	}{
		{'s', u.Sysname},
		{'n', u.Nodename},
		{'r', u.Release},
		{'v', u.Version},
		{'m', u.Machine},
	}
	var out []string
	for _, f := range fields {
		if selected[f.flag] {
			out = append(out, f.value)
		}
	}
	return strings.Join(out, " ")
}
