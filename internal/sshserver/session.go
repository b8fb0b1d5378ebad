// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/vfsh/vfsh/internal/host"
	"github.com/vfsh/vfsh/internal/shell"
	"github.com/vfsh/vfsh/internal/terminal"
	"github.com/vfsh/vfsh/pkg/types"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
)

// shellMiddleware runs one shell per session. Sessions end when the server
// context is canceled.
func (s *Server) shellMiddleware(serveCtx context.Context) wish.Middleware {
	return func(ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			ctx, cancel := context.WithCancel(sess.Context())
			defer cancel()
			stop := context.AfterFunc(serveCtx, cancel)
			defer stop()

			sh := s.newShell(sess)
			logger := s.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
			logger.Info("session opened")

			code := s.runSession(ctx, sh, sess)

			logger.Info("session closed", "status", code)
			_ = sess.Exit(int(code))
		}
	}
}

func (s *Server) runSession(ctx context.Context, sh *shell.Shell, sess ssh.Session) types.ExitCode {
	if cmd := sess.Command(); len(cmd) > 0 {
		return runCommand(ctx, sh, sess, strings.Join(cmd, " "))
	}

	ptyReq, winCh, isPty := sess.Pty()
	if !isPty {
		return s.interactive(ctx, sh, terminal.NewLines(sess, sess))
	}

	tty := terminal.NewTTY(sess, sh.PromptPrefix())
	_ = tty.SetSize(ptyReq.Window.Width, ptyReq.Window.Height)
	go func() {
		for win := range winCh {
			_ = tty.SetSize(win.Width, win.Height)
		}
	}()
	return s.interactive(ctx, sh, tty)
}

func (s *Server) interactive(ctx context.Context, sh *shell.Shell, term terminal.Terminal) types.ExitCode {
	code, err := shell.Interactive(ctx, sh, term)
	if err != nil {
		s.logger.Debug("session ended", "error", err)
		return 1
	}
	return code
}

// runCommand executes line once. The status is the exit code for exit, 1 for
// a failed line, otherwise 0.
func runCommand(ctx context.Context, sh *shell.Shell, sess ssh.Session, line string) types.ExitCode {
	res, err := sh.Execute(ctx, line)
	if err != nil {
		fmt.Fprintf(sess.Stderr(), "ERROR: %v\n", err)
		return 1
	}
	fmt.Fprint(sess, res.Output)
	switch {
	case res.Exit:
		return res.Code
	case res.Err != nil:
		return 1
	default:
		return 0
	}
}

// newShell builds a shell over the current tree. The session environment
// replaces the server's: only variables sent by the client plus USER are
// visible to expansion.
func (s *Server) newShell(sess ssh.Session) *shell.Shell {
	env := make(map[string]string)
	for _, kv := range sess.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	env["USER"] = sess.User()

	name := s.system.Hostname()
	info, err := s.system.Uname()
	if err != nil {
		s.logger.Warn("uname unavailable", "error", err)
	}
	info.Nodename = name

	return shell.New(
		s.source.Tree(),
		host.NewStatic(name, info, env),
		shell.WithLogger(s.logger.WithPrefix("shell")),
		shell.WithArgumentExpansion(!s.cfg.DisableExpansion),
	)
}
