// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Default holds the built-in commands. They are registered during package
// initialization.
var Default = NewRegistry()

// Registry maps command words to implementations. It is safe for concurrent
// use.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
	}
}

// Register adds a command. It panics on an empty or duplicate name.
func (r *Registry) Register(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := cmd.Name()
	if name == "" {
		panic("commands: cannot register command with empty name")
	}
	if _, exists := r.commands[name]; exists {
		panic(fmt.Sprintf("commands: command %q already registered", name))
	}
	r.commands[name] = cmd
}

// Lookup retrieves a command by name.
func (r *Registry) Lookup(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns the registered command words in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.commands))
}

// Run executes the named command. It returns an error wrapping
// ErrUnknownCommand when name is not registered.
func (r *Registry) Run(ctx context.Context, env *Env, name string, args []string) (string, error) {
	cmd, ok := r.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%s: %w", name, ErrUnknownCommand)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return cmd.Run(ctx, env, args)
}

func registerDefault(cmd Command) {
	Default.Register(cmd)
}
