// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"bytes"
	"context"
	"errors"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vfsh/vfsh/internal/host"
	"github.com/vfsh/vfsh/internal/vfs"

	gossh "golang.org/x/crypto/ssh"
)

func testSource() *vfs.Source {
	return vfs.StaticSource(vfs.NewTree(vfs.NewDirectory(map[string]vfs.Node{
		"docs": vfs.NewDirectory(map[string]vfs.Node{
			"notes.txt": vfs.NewFile("one\ntwo\n"),
		}),
		"readme.txt": vfs.NewFile("hello world\n"),
	})))
}

func testSystem() host.Host {
	return host.NewStatic("sshhost", host.Uname{Sysname: "Linux", Release: "6.1.0", Machine: "x86_64"}, nil)
}

func startServer(t *testing.T, cfg Config) *Server {
	t.Helper()

	srv, err := New(cfg, testSource(), WithSystem(testSystem()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := srv.Start(t.Context()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		if err := srv.Stop(); err != nil {
			t.Errorf("Stop() error = %v", err)
		}
	})
	return srv
}

func dial(t *testing.T, srv *Server, auth ...gossh.AuthMethod) *gossh.Client {
	t.Helper()

	client, err := gossh.Dial("tcp", srv.Address(), &gossh.ClientConfig{
		User:            "alice",
		Auth:            auth,
		HostKeyCallback: gossh.InsecureIgnoreHostKey(),
		Timeout:         5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestServerStartStop(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	srv, err := New(cfg, testSource())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if srv.State() != StateCreated {
		t.Errorf("State() = %s, want created", srv.State())
	}
	if srv.IsRunning() {
		t.Error("IsRunning() should be false before Start()")
	}

	if err := srv.Start(t.Context()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !srv.IsRunning() {
		t.Errorf("State() = %s, want running", srv.State())
	}
	if srv.Port() == 0 {
		t.Error("Port() should be assigned")
	}

	if err := srv.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if srv.State() != StateStopped {
		t.Errorf("State() = %s, want stopped", srv.State())
	}
	if err := srv.Wait(); err != nil {
		t.Errorf("Wait() after Stop = %v, want nil", err)
	}
	if _, ok := <-srv.Err(); ok {
		t.Error("Err() should be closed after Stop()")
	}
}

func TestServerDoubleStartAndStop(t *testing.T) {
	t.Parallel()

	srv := startServer(t, DefaultConfig())

	if err := srv.Start(t.Context()); err == nil {
		t.Error("second Start() should fail")
	}
	if err := srv.Stop(); err != nil {
		t.Fatalf("first Stop() error = %v", err)
	}
	if err := srv.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}

func TestServerStopWithoutStart(t *testing.T) {
	t.Parallel()

	srv, err := New(DefaultConfig(), testSource())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := srv.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if srv.State() != StateStopped {
		t.Errorf("State() = %s, want stopped", srv.State())
	}
	if addr := srv.Address(); addr != "" {
		t.Errorf("Address() = %q, want empty", addr)
	}
}

func TestServerStartWithCanceledContext(t *testing.T) {
	t.Parallel()

	srv, err := New(DefaultConfig(), testSource())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if err := srv.Start(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Start() error = %v, want context.Canceled", err)
	}
	if srv.State() != StateFailed {
		t.Errorf("State() = %s, want failed", srv.State())
	}
	if err := srv.Wait(); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() = %v, want context.Canceled", err)
	}
}

func TestServerStartWithUsedPort(t *testing.T) {
	t.Parallel()

	first := startServer(t, DefaultConfig())

	cfg := DefaultConfig()
	cfg.Port = first.Port()
	second, err := New(cfg, testSource())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := second.Start(t.Context()); err == nil {
		_ = second.Stop()
		t.Fatal("Start() on a used port should fail")
	}
	if second.State() != StateFailed {
		t.Errorf("State() = %s, want failed", second.State())
	}
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	if _, err := New(DefaultConfig(), nil); !errors.Is(err, ErrNoSource) {
		t.Errorf("New(nil source) error = %v, want ErrNoSource", err)
	}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"port too large", Config{Host: "127.0.0.1", Port: 70000}},
		{"negative port", Config{Host: "127.0.0.1", Port: -1}},
		{"blank host", Config{Host: "  "}},
		{"negative timeout", Config{Host: "127.0.0.1", ShutdownTimeout: -time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := New(tt.cfg, testSource()); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("New() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	tests := map[State]string{
		StateCreated:  "created",
		StateStarting: "starting",
		StateRunning:  "running",
		StateStopping: "stopping",
		StateStopped:  "stopped",
		StateFailed:   "failed",
		State(99):     "unknown",
	}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(state), got, want)
		}
	}
}

func TestIsClosedConnError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"closed", net.ErrClosed, true},
		{"op error", &net.OpError{Op: "accept", Err: net.ErrClosed}, true},
		{"other op error", &net.OpError{Op: "accept", Err: errors.New("boom")}, false},
		{"other", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := isClosedConnError(tt.err); got != tt.want {
				t.Errorf("isClosedConnError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionRunsCommand(t *testing.T) {
	t.Parallel()

	srv := startServer(t, DefaultConfig())
	client := dial(t, srv)

	tests := []struct {
		line       string
		wantOut    string
		wantStatus int
	}{
		{line: "ls /", wantOut: "docs/ readme.txt\n"},
		{line: "wc /readme.txt", wantOut: "  1  2  12 /readme.txt\n"},
		{line: "uname -n", wantOut: "sshhost\n"},
		{line: "$USER", wantOut: "alice\n"},
		{line: "tac missing", wantOut: "tac: cannot access 'missing': No such file\n", wantStatus: 1},
		{line: "exit 7", wantStatus: 7},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			sess, err := client.NewSession()
			if err != nil {
				t.Fatalf("NewSession() error = %v", err)
			}
			defer func() { _ = sess.Close() }()

			var stdout bytes.Buffer
			sess.Stdout = &stdout
			err = sess.Run(tt.line)

			status := 0
			var exitErr *gossh.ExitError
			if errors.As(err, &exitErr) {
				status = exitErr.ExitStatus()
			} else if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if stdout.String() != tt.wantOut {
				t.Errorf("output = %q, want %q", stdout.String(), tt.wantOut)
			}
		})
	}
}

func TestSessionInteractiveWithoutPTY(t *testing.T) {
	t.Parallel()

	srv := startServer(t, DefaultConfig())
	client := dial(t, srv)

	sess, err := client.NewSession()
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	defer func() { _ = sess.Close() }()

	var stdout bytes.Buffer
	sess.Stdout = &stdout
	sess.Stdin = strings.NewReader("cd docs\ntac notes.txt\nerror\nexit 3\nls\n")

	if err := sess.Shell(); err != nil {
		t.Fatalf("Shell() error = %v", err)
	}
	err = sess.Wait()

	var exitErr *gossh.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitStatus() != 3 {
		t.Fatalf("Wait() = %v, want exit status 3", err)
	}

	want := "sshhost ~ % cd docs\n" +
		"sshhost ~ % tac notes.txt\n" +
		"\ntwo\none\n" +
		"sshhost ~ % error\n" +
		"ERROR: test error\n" +
		"sshhost ~ % exit 3\n"
	if got := stdout.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestPasswordAuth(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Password = "s3cret"
	cfg.HostKeyPath = filepath.Join(t.TempDir(), "host_key")
	srv := startServer(t, cfg)

	_, err := gossh.Dial("tcp", srv.Address(), &gossh.ClientConfig{
		User:            "mallory",
		Auth:            []gossh.AuthMethod{gossh.Password("wrong")},
		HostKeyCallback: gossh.InsecureIgnoreHostKey(),
		Timeout:         5 * time.Second,
	})
	if err == nil {
		t.Fatal("Dial() with a wrong password should fail")
	}

	client := dial(t, srv, gossh.Password("s3cret"))
	sess, err := client.NewSession()
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	defer func() { _ = sess.Close() }()

	out, err := sess.Output("ls /docs")
	if err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	if string(out) != "notes.txt\n" {
		t.Errorf("output = %q, want %q", out, "notes.txt\n")
	}
}
