// SPDX-License-Identifier: MPL-2.0

package commands

import "context"

type (
	// Command is a built-in shell command.
	Command interface {
		// Name returns the command word (e.g., "ls").
		Name() string

		// Run executes the command. args holds the tokens after the command
		// word. The returned text is written verbatim to the terminal; it is
		// either empty or newline-terminated.
		Run(ctx context.Context, env *Env, args []string) (string, error)

		// SupportedFlags returns the flags this command understands.
		SupportedFlags() []FlagInfo
	}

	// FlagInfo describes a flag accepted by a command.
	FlagInfo struct {
		// Name is the flag name without the leading dash.
		Name string
		// Description explains what the flag does.
		Description string
	}
)
