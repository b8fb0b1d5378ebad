// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/vfsh/vfsh/internal/commands"
	"github.com/vfsh/vfsh/internal/host"
	"github.com/vfsh/vfsh/internal/vfs"
	"github.com/vfsh/vfsh/pkg/types"

	"github.com/charmbracelet/log"
)

const (
	cmdExit  = "exit"
	cmdError = "error"

	msgEmptyCommand   = "empty command"
	msgUnknownCommand = "unknown command"
)

type (
	// Shell dispatches command lines against one session over a VFS tree.
	// Execute is safe for concurrent use; calls are serialized so that a cd
	// is visible to the next command.
	Shell struct {
		mu       sync.Mutex
		tree     *vfs.Tree
		session  *commands.Session
		host     host.Host
		registry *commands.Registry
		expander *expander
		expand   bool
		logger   *log.Logger
	}

	// Option configures a Shell.
	Option func(*Shell)

	// Result is the outcome of one command line.
	Result struct {
		// Output is the text to display; empty or newline-terminated.
		Output string
		// Err is the command error already rendered into Output, if any.
		Err error
		// Exit is set by the exit command.
		Exit bool
		// Code is the requested exit status when Exit is set.
		Code types.ExitCode
	}
)

// WithRegistry replaces the default command registry.
func WithRegistry(r *commands.Registry) Option {
	return func(s *Shell) { s.registry = r }
}

// WithLogger sets the diagnostic logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(s *Shell) { s.logger = l }
}

// WithArgumentExpansion toggles $NAME expansion inside command arguments.
// It is enabled by default. Lines starting with a sigil are always expanded.
func WithArgumentExpansion(enabled bool) Option {
	return func(s *Shell) { s.expand = enabled }
}

// New creates a shell over tree positioned at "/". A nil tree is replaced by
// the fallback tree.
func New(tree *vfs.Tree, h host.Host, opts ...Option) *Shell {
	if tree == nil {
		tree = vfs.Fallback()
	}
	s := &Shell{
		tree:     tree,
		session:  commands.NewSession(),
		host:     h,
		registry: commands.Default,
		expand:   true,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.expander = newExpander(h)
	return s
}

// Cwd returns the current working directory.
func (s *Shell) Cwd() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Cwd()
}

// Prompt renders the synthetic prompt for line.
func (s *Shell) Prompt(line string) string {
	return s.PromptPrefix() + line
}

// PromptPrefix is the prompt without a command line.
func (s *Shell) PromptPrefix() string {
	return s.host.Hostname() + " ~ % "
}

// Execute runs one command line. Ordinary failures are rendered into
// Result.Output. A *FatalError is returned for the error command and for
// panics raised while running a command; ctx errors are returned as is.
func (s *Shell) Execute(ctx context.Context, line string) (res Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			res, err = Result{}, recoveredFatal(line, r)
			s.logger.Error("command panicked", "line", line, "err", err)
		}
	}()

	s.logger.Debug("execute", "line", line, "cwd", s.session.Cwd())

	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return Result{Output: msgEmptyCommand + "\n"}, nil
	}

	name, args := tokens[0], tokens[1:]
	switch name {
	case cmdExit:
		return exitResult(args), nil
	case cmdError:
		return Result{}, &FatalError{Line: line, Err: ErrTestError}
	}

	if _, ok := s.registry.Lookup(name); ok {
		return s.run(ctx, name, args)
	}

	if expanded, ok := s.expander.line(strings.TrimSpace(line)); ok {
		return Result{Output: expanded + "\n"}, nil
	}
	return Result{Output: msgUnknownCommand + "\n", Err: commands.ErrUnknownCommand}, nil
}

func (s *Shell) run(ctx context.Context, name string, args []string) (Result, error) {
	if s.expand {
		for i, arg := range args {
			args[i] = s.expander.arg(arg)
		}
	}

	env := &commands.Env{Tree: s.tree, Session: s.session, Host: s.host}
	out, err := s.registry.Run(ctx, env, name, args)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return Result{}, err
		}
		s.logger.Debug("command failed", "command", name, "err", err)
		return Result{Output: fmt.Sprintf("%s: %s\n", name, err), Err: err}, nil
	}
	return Result{Output: out}, nil
}

// exitResult parses the optional status operand of exit. A bad operand is a
// usage error and does not end the session.
func exitResult(args []string) Result {
	if len(args) == 0 {
		return Result{Exit: true}
	}
	if len(args) > 1 {
		err := &commands.UsageError{Message: "too many arguments"}
		return Result{Output: "exit: too many arguments\n", Err: err}
	}
	code, err := types.ParseExitCode(args[0])
	if err != nil {
		uerr := &commands.UsageError{Message: err.Error()}
		return Result{Output: "exit: " + uerr.Message + "\n", Err: uerr}
	}
	return Result{Exit: true, Code: code}
}
