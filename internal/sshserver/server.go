// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/vfsh/vfsh/internal/host"
	"github.com/vfsh/vfsh/internal/vfs"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
)

var (
	// ErrInvalidConfig is wrapped by errors returned from Config.Validate.
	ErrInvalidConfig = errors.New("invalid SSH server config")

	// ErrNoSource is returned by New when no document source is given.
	ErrNoSource = errors.New("no VFS source")
)

type (
	// Config holds immutable configuration for the SSH server.
	Config struct {
		// Host is the address to bind to (default: 127.0.0.1).
		Host string
		// Port is the port to listen on (0 = auto-select).
		Port int
		// HostKeyPath is the ed25519 host key, generated when missing.
		// Empty uses an ephemeral key.
		HostKeyPath string
		// Password enables password authentication when non-empty.
		Password string
		// Hostname is the name shells report; empty uses the machine name.
		Hostname string
		// DisableExpansion turns off $VAR expansion of command arguments.
		DisableExpansion bool
		// ShutdownTimeout bounds graceful shutdown (default: 5s).
		ShutdownTimeout time.Duration
		// StartupTimeout bounds listener setup (default: 5s).
		StartupTimeout time.Duration
	}

	// Server serves vfsh shells over SSH.
	Server struct {
		*lifecycle

		cfg    Config
		source *vfs.Source
		system host.Host
		logger *log.Logger

		srv  *ssh.Server
		ln   net.Listener
		addr string
	}

	// Option configures a Server.
	Option func(*Server)
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Host:            "127.0.0.1",
		ShutdownTimeout: 5 * time.Second,
		StartupTimeout:  5 * time.Second,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("%w: empty host", ErrInvalidConfig)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if c.ShutdownTimeout < 0 || c.StartupTimeout < 0 {
		return fmt.Errorf("%w: negative timeout", ErrInvalidConfig)
	}
	return nil
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithSystem sets the host whose uname information sessions report.
func WithSystem(h host.Host) Option {
	return func(s *Server) {
		s.system = h
	}
}

// New creates a server that hands out shells over the current tree of src.
// The server is not started; call Start to accept connections.
func New(cfg Config, src *vfs.Source, opts ...Option) (*Server, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = 5 * time.Second
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		lifecycle: newLifecycle(),
		cfg:       cfg,
		source:    src,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.system == nil {
		s.system = host.System(cfg.Hostname)
	}
	return s, nil
}

// Start binds the listener and blocks until the server accepts connections,
// fails to start, or ctx is done. After Start returns nil, use Err to
// monitor runtime failures.
func (s *Server) Start(ctx context.Context) error {
	serveCtx, err := s.begin(ctx)
	if err != nil {
		return err
	}

	startupCtx, cancel := context.WithTimeout(ctx, s.cfg.StartupTimeout)
	defer cancel()

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	var lc net.ListenConfig
	ln, err := lc.Listen(startupCtx, "tcp", addr)
	if err != nil {
		return s.fail(fmt.Errorf("failed to listen on %s: %w", addr, err))
	}

	opts := []ssh.Option{
		wish.WithAddress(addr),
		wish.WithMiddleware(s.shellMiddleware(serveCtx)),
	}
	if s.cfg.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(s.cfg.HostKeyPath))
	}
	if s.cfg.Password != "" {
		opts = append(opts, wish.WithPasswordAuth(s.passwordHandler))
	}
	srv, err := wish.NewServer(opts...)
	if err != nil {
		_ = ln.Close()
		return s.fail(fmt.Errorf("failed to create SSH server: %w", err))
	}

	s.mu.Lock()
	s.srv = srv
	s.ln = ln
	s.addr = ln.Addr().String()
	s.mu.Unlock()

	s.wg.Add(1)
	go s.serve(srv, ln)

	select {
	case <-s.started:
		s.logger.Info("SSH server started", "address", s.addr)
		return nil
	case err := <-s.errCh:
		return s.fail(err)
	case <-startupCtx.Done():
		_ = ln.Close()
		return s.fail(fmt.Errorf("startup timeout: %w", startupCtx.Err()))
	}
}

func (s *Server) serve(srv *ssh.Server, ln net.Listener) {
	defer s.wg.Done()

	s.running()

	err := srv.Serve(ln)
	if err == nil || errors.Is(err, ssh.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
		return
	}
	s.report(fmt.Errorf("serve error: %w", err))
}

// Stop shuts the server down, waiting up to the shutdown timeout for open
// sessions. It is safe to call more than once.
func (s *Server) Stop() error {
	if !s.stopping() {
		s.wg.Wait()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	srv, ln := s.srv, s.ln
	s.mu.Unlock()

	var shutdownErr error
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil && !isClosedConnError(err) {
			s.logger.Error("shutdown error", "error", err)
			shutdownErr = err
		}
	}
	if ln != nil {
		_ = ln.Close()
	}

	s.wg.Wait()
	s.stopped()
	close(s.errCh)
	s.logger.Info("SSH server stopped")
	return shutdownErr
}

// Wait blocks until the server has stopped or failed. It returns the failure
// cause, or nil after a clean stop.
func (s *Server) Wait() error {
	<-s.done
	s.wg.Wait()
	if s.State() == StateFailed {
		return s.lastError()
	}
	return nil
}

// Err receives runtime failures. It is closed after Stop.
func (s *Server) Err() <-chan error {
	return s.errCh
}

// State returns the current lifecycle state.
func (s *Server) State() State {
	return s.current()
}

// IsRunning reports whether the server accepts connections.
func (s *Server) IsRunning() bool {
	return s.State() == StateRunning
}

// Address returns the bound host:port, blocking until the server is running.
// It returns "" if the server stops or fails first.
func (s *Server) Address() string {
	select {
	case <-s.started:
	case <-s.done:
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Port returns the bound port, or 0 when the server is not running.
func (s *Server) Port() int {
	_, portStr, err := net.SplitHostPort(s.Address())
	if err != nil {
		return 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0
	}
	return port
}

func (s *Server) passwordHandler(ctx ssh.Context, password string) bool {
	ok := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) == 1
	if !ok {
		s.logger.Warn("rejected password", "user", ctx.User(), "remote", ctx.RemoteAddr().String())
	}
	return ok
}

// isClosedConnError reports whether err is "use of closed network connection".
func isClosedConnError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, net.ErrClosed)
	}
	return errors.Is(err, net.ErrClosed)
}
