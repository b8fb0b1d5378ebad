// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

type (
	// wcCommand counts the lines, words and characters of a file.
	wcCommand struct {
		name string
	}

	// wcCounts holds the counts for a file.
	wcCounts struct {
		lines int
		words int
		chars int
	}
)

func init() {
	registerDefault(&wcCommand{name: "wc"})
}

// Name returns the command name.
func (c *wcCommand) Name() string {
	return c.name
}

// SupportedFlags returns nil; wc always prints all three counts.
func (c *wcCommand) SupportedFlags() []FlagInfo {
	return nil
}

// Run prints "  <lines>  <words>  <chars> <path>" for the named file.
func (c *wcCommand) Run(_ context.Context, env *Env, args []string) (string, error) {
	f, err := operandFile(env, args)
	if err != nil {
		return "", err
	}
	counts := count(f.Content())
	return fmt.Sprintf("  %d  %d  %d %s\n", counts.lines, counts.words, counts.chars, args[0]), nil
}

// count treats "\n" as the line separator. A final empty segment left by a
// trailing newline is not a line; the character count still includes it.
func count(content string) wcCounts {
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var words int
	for _, line := range lines {
		words += len(strings.Fields(line))
	}
	return wcCounts{
		lines: len(lines),
		words: words,
		chars: utf8.RuneCountInString(content),
	}
}
