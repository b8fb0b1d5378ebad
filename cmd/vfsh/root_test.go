// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vfsh/vfsh/internal/config"
	"github.com/vfsh/vfsh/internal/issue"
	"github.com/vfsh/vfsh/pkg/types"

	"github.com/charmbracelet/fang"
)

const testDocument = `{
  "/": {
    "type": "directory",
    "content": {
      "docs": {
        "type": "directory",
        "content": {
          "poem.txt": {"type": "file", "content": "roses\nviolets\n"}
        }
      },
      "readme.txt": {"type": "file", "content": "hello world\n"}
    }
  }
}`

type stubProvider struct {
	cfg *config.Config
	err error
}

func (p stubProvider) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.cfg, nil
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Shell.Hostname = "testhost"
	cfg.UI.ColorScheme = "notty"
	return cfg
}

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, provider config.Provider, stdin string, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{
		Config: provider,
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &stderr,
	})
	root := newRootCommand(app)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func exitCode(t *testing.T, err error) types.ExitCode {
	t.Helper()
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want *ExitError", err)
	}
	return exitErr.Code
}

func TestRootInteractive(t *testing.T) {
	t.Parallel()

	doc := writeTemp(t, "vfs.json", testDocument)
	res := execute(t, stubProvider{cfg: testConfig()}, "ls\ncd docs\ntac poem.txt\nerror\nexit 4\nls\n", "--vfs", doc)

	if code := exitCode(t, res.err); code != 4 {
		t.Errorf("exit code = %d, want 4", code)
	}

	want := "testhost ~ % ls\n" +
		"docs/ readme.txt\n" +
		"testhost ~ % cd docs\n" +
		"testhost ~ % tac poem.txt\n" +
		"\nviolets\nroses\n" +
		"testhost ~ % error\n" +
		"ERROR: test error\n" +
		"testhost ~ % exit 4\n"
	if res.stdout != want {
		t.Errorf("stdout = %q, want %q", res.stdout, want)
	}
	if !strings.Contains(res.stderr, "VFS loaded: "+doc) {
		t.Errorf("stderr should report the load, got %q", res.stderr)
	}
}

func TestRootInteractiveEOF(t *testing.T) {
	t.Parallel()

	res := execute(t, stubProvider{cfg: testConfig()}, "ls\n")
	if res.err != nil {
		t.Fatalf("Execute() error = %v", res.err)
	}
	// Without a document the root directory is empty.
	if res.stdout != "testhost ~ % ls\n" {
		t.Errorf("stdout = %q", res.stdout)
	}
}

func TestRootMissingDocumentFallsBack(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.json")
	res := execute(t, stubProvider{cfg: testConfig()}, "ls /\n", "--vfs", missing)
	if res.err != nil {
		t.Fatalf("Execute() error = %v", res.err)
	}
	if !strings.Contains(res.stderr, "VFS error: file not found: "+missing) {
		t.Errorf("stderr = %q, want the load error", res.stderr)
	}
	if res.stdout != "testhost ~ % ls /\n" {
		t.Errorf("stdout = %q, want an empty listing", res.stdout)
	}
}

func TestRootScriptThenInteractive(t *testing.T) {
	t.Parallel()

	doc := writeTemp(t, "vfs.json", testDocument)
	script := writeTemp(t, "demo.txt", "# comment\n\ncd docs\nerror\nls\n")

	res := execute(t, stubProvider{cfg: testConfig()}, "ls\n", "--vfs", doc, "--script", script)
	if res.err != nil {
		t.Fatalf("Execute() error = %v", res.err)
	}

	want := "\n=== RUNNING SCRIPT: " + script + " ===\n" +
		"testhost ~ % cd docs\n" +
		"testhost ~ % error\n" +
		"ERROR while running script: test error\n" +
		"testhost ~ % ls\n" +
		"poem.txt\n"
	if res.stdout != want {
		t.Errorf("stdout = %q, want %q", res.stdout, want)
	}
}

func TestRunScript(t *testing.T) {
	t.Parallel()

	doc := writeTemp(t, "vfs.json", testDocument)

	tests := []struct {
		name     string
		script   string
		wantOut  string
		wantCode types.ExitCode
	}{
		{
			name:    "finishes",
			script:  "wc readme.txt\n  \n# skipped\nuname\n",
			wantOut: "  1  2  12 readme.txt\n",
		},
		{
			name:     "exit ends the run",
			script:   "exit 9\nls\n",
			wantCode: 9,
		},
		{
			name:     "fatal line aborts",
			script:   "error\nls\n",
			wantOut:  "ERROR while running script: test error\n",
			wantCode: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			script := writeTemp(t, "script.txt", tt.script)
			res := execute(t, stubProvider{cfg: testConfig()}, "", "run", script, "--vfs", doc)

			if code := exitCode(t, res.err); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if !strings.HasPrefix(res.stdout, "\n=== RUNNING SCRIPT: "+script+" ===\n") {
				t.Errorf("stdout should start with the banner, got %q", res.stdout)
			}
			if !strings.Contains(res.stdout, tt.wantOut) {
				t.Errorf("stdout = %q, want it to contain %q", res.stdout, tt.wantOut)
			}
			finished := strings.HasSuffix(res.stdout, "=== SCRIPT FINISHED ===\n\n")
			if finished != (tt.wantCode == 0) {
				t.Errorf("closing banner present = %v, stdout %q", finished, res.stdout)
			}
		})
	}
}

func TestRunScriptNotFound(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.txt")
	res := execute(t, stubProvider{cfg: testConfig()}, "", "run", missing, "-v")

	if code := exitCode(t, res.err); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if res.stdout != "ERROR: script not found: "+missing+"\n" {
		t.Errorf("stdout = %q", res.stdout)
	}
	if !strings.Contains(res.stderr, "Script not found") {
		t.Errorf("verbose stderr should render the catalog entry, got %q", res.stderr)
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	doc := writeTemp(t, "vfs.json", testDocument)
	broken := writeTemp(t, "broken.json", `{"/": {"type": "file", "content": "x"}}`)

	t.Run("loaded", func(t *testing.T) {
		t.Parallel()

		res := execute(t, stubProvider{cfg: testConfig()}, "", "status", "--vfs", doc)
		if res.err != nil {
			t.Fatalf("Execute() error = %v", res.err)
		}
		lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
		if len(lines) != 3 || lines[0] != "VFS loaded: "+doc {
			t.Fatalf("stdout = %q", res.stdout)
		}
		if !strings.HasSuffix(lines[1], " 2") || !strings.HasSuffix(lines[2], " 2") {
			t.Errorf("counts = %q, want 2 directories and 2 files", lines[1:])
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		res := execute(t, stubProvider{cfg: testConfig()}, "", "status", "--vfs", broken)
		if code := exitCode(t, res.err); code != 1 {
			t.Errorf("exit code = %d, want 1", code)
		}
		if !strings.HasPrefix(res.stdout, "VFS error: invalid structure") {
			t.Errorf("stdout = %q", res.stdout)
		}
	})

	t.Run("not in use", func(t *testing.T) {
		t.Parallel()

		res := execute(t, stubProvider{cfg: testConfig()}, "", "status")
		if res.err != nil || res.stdout != "VFS: not in use\n" {
			t.Errorf("stdout = %q, err = %v", res.stdout, res.err)
		}
	})
}

func TestStatusUsesConfiguredDocument(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.VFS.Path = writeTemp(t, "vfs.json", testDocument)

	res := execute(t, stubProvider{cfg: cfg}, "", "status")
	if !strings.HasPrefix(res.stdout, "VFS loaded: "+cfg.VFS.Path) {
		t.Errorf("stdout = %q", res.stdout)
	}
}

func TestConfigLoadErrors(t *testing.T) {
	t.Parallel()

	loadErr := issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource("config.cue").
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(config.ErrInvalidConfig).
		BuildError()

	t.Run("explicit config fails", func(t *testing.T) {
		t.Parallel()

		res := execute(t, stubProvider{err: loadErr}, "", "--config", "config.cue", "status")
		if !errors.Is(res.err, config.ErrInvalidConfig) {
			t.Errorf("error = %v, want ErrInvalidConfig", res.err)
		}
	})

	t.Run("default config warns", func(t *testing.T) {
		t.Parallel()

		res := execute(t, stubProvider{err: loadErr}, "", "status")
		if res.err != nil {
			t.Fatalf("Execute() error = %v", res.err)
		}
		if !strings.Contains(res.stderr, "Warning:") ||
			!strings.Contains(res.stderr, "failed to load configuration: config.cue") {
			t.Errorf("stderr = %q", res.stderr)
		}
	})
}

func TestConfigDump(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.SSH.Password = "hunter2"

	res := execute(t, stubProvider{cfg: cfg}, "", "config", "dump")
	if res.err != nil {
		t.Fatalf("Execute() error = %v", res.err)
	}
	if !strings.Contains(res.stdout, `hostname: "testhost"`) {
		t.Errorf("dump should contain the hostname, got %q", res.stdout)
	}
	if strings.Contains(res.stdout, "hunter2") {
		t.Error("dump must not contain the password")
	}
}

func TestConfigShow(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.SSH.Password = "hunter2"

	res := execute(t, stubProvider{cfg: cfg}, "", "config", "show")
	if res.err != nil {
		t.Fatalf("Execute() error = %v", res.err)
	}
	for _, want := range []string{"Current Configuration", "testhost", "(set)", "2222"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("show output missing %q:\n%s", want, res.stdout)
		}
	}
	if strings.Contains(res.stdout, "hunter2") {
		t.Error("show must not print the password")
	}
}

func TestServeValidation(t *testing.T) {
	t.Parallel()

	t.Run("watch without document", func(t *testing.T) {
		t.Parallel()

		res := execute(t, stubProvider{cfg: testConfig()}, "", "serve", "--watch")
		if !errors.Is(res.err, errWatchWithoutDocument) {
			t.Errorf("error = %v, want errWatchWithoutDocument", res.err)
		}
	})

	t.Run("port out of range", func(t *testing.T) {
		t.Parallel()

		res := execute(t, stubProvider{cfg: testConfig()}, "", "serve", "--port", "70000")
		if !errors.Is(res.err, config.ErrInvalidPort) {
			t.Errorf("error = %v, want ErrInvalidPort", res.err)
		}
	})
}

func TestHandleError(t *testing.T) {
	t.Parallel()

	app := NewApp(Dependencies{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
	app.cfg.UI.ColorScheme = "notty"
	var styles fang.Styles

	tests := []struct {
		name    string
		verbose bool
		err     error
		want    []string
		empty   bool
	}{
		{
			name:  "bare exit status",
			err:   &ExitError{Code: 3},
			empty: true,
		},
		{
			name: "actionable",
			err: issue.NewErrorContext().
				WithOperation("start SSH server").
				WithResource("127.0.0.1:22").
				WithSuggestion("Try another port with --port").
				Wrap(errors.New("address in use")).
				BuildError(),
			want: []string{"failed to start SSH server: 127.0.0.1:22: address in use", "Try another port"},
		},
		{
			name:    "actionable with issue in verbose mode",
			verbose: true,
			err: issue.NewErrorContext().
				WithOperation("start SSH server").
				WithIssue(issue.SSHServerStartFailedId).
				Wrap(errors.New("address in use")).
				BuildError(),
			want: []string{"Error chain:", "SSH server failed to start"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			app.verbose = tt.verbose
			app.handleError(&buf, styles, tt.err)

			if tt.empty {
				if buf.Len() != 0 {
					t.Errorf("output = %q, want none", buf.String())
				}
				return
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	if got := (&ExitError{Code: 2}).Error(); got != "exit status 2" {
		t.Errorf("Error() = %q", got)
	}
	err := &ExitError{Code: 1, Err: cause}
	if err.Error() != "boom" || !errors.Is(err, cause) {
		t.Errorf("ExitError should wrap its cause, got %v", err)
	}
}

func TestGetVersionString(t *testing.T) {
	t.Parallel()

	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("getVersionString() = %q", got)
	}
}
