// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vfsh/vfsh/internal/vfs"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// relevantOps are the operations that can change the document's content.
const relevantOps = fsnotify.Create | fsnotify.Write | fsnotify.Rename | fsnotify.Remove

var (
	// ErrInvalidConfig is wrapped by errors returned from New.
	ErrInvalidConfig = errors.New("invalid watch config")

	defaultIgnores = []string{"*.swp", "*.swo", "*~", ".#*"}
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Path is the document to watch.
		Path string

		// Ignore are doublestar patterns matched against base names in the
		// document's directory. They are merged with the built-in defaults.
		Ignore []string

		// Debounce is the quiet period after the last event before OnChange
		// fires. Zero or negative values use 500ms.
		Debounce time.Duration

		// OnChange is called once per burst of events. A nil callback is a
		// no-op.
		OnChange func(ctx context.Context) error

		// Logger receives diagnostics. nil discards them.
		Logger *log.Logger
	}

	// Watcher fires a debounced callback when the document changes. Run
	// must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		name     string
		ignores  []string
		debounce time.Duration
		logger   *log.Logger
		started  atomic.Bool
	}
)

// New validates cfg and registers the document's directory with fsnotify.
func New(cfg Config) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: no document path", ErrInvalidConfig)
	}
	for _, pat := range cfg.Ignore {
		if _, err := doublestar.Match(pat, ""); err != nil {
			return nil, fmt.Errorf("%w: ignore pattern %q: %w", ErrInvalidConfig, pat, err)
		}
	}

	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve document path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch: add directory %q: %w", filepath.Dir(abs), err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		name:     filepath.Base(abs),
		ignores:  append(append([]string(nil), defaultIgnores...), cfg.Ignore...),
		debounce: debounce,
		logger:   logger,
	}, nil
}

// Run processes events until ctx is done. It returns nil on cancellation and
// an error when the watcher can no longer observe the directory.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending bool
		timer   *time.Timer
		busy    atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !busy.CompareAndSwap(false, true) {
			// Retry later so the pending change is not lost.
			mu.Lock()
			timer.Reset(w.debounce)
			mu.Unlock()
			return
		}
		defer busy.Store(false)

		mu.Lock()
		if !pending {
			mu.Unlock()
			return
		}
		pending = false
		mu.Unlock()

		if w.cfg.OnChange == nil {
			return
		}
		if err := w.cfg.OnChange(ctx); err != nil {
			w.logger.Error("change handler failed", "path", w.cfg.Path, "error", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close fsnotify", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if !w.relevant(evt) {
				continue
			}
			w.logger.Debug("document event", "op", evt.Op.String(), "path", evt.Name)

			mu.Lock()
			pending = true
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatal(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "error", err)
		}
	}
}

func (w *Watcher) relevant(evt fsnotify.Event) bool {
	if evt.Op&relevantOps == 0 {
		return false
	}
	base := filepath.Base(evt.Name)
	if w.isIgnored(base) {
		return false
	}
	return base == w.name
}

func (w *Watcher) isIgnored(base string) bool {
	for _, pat := range w.ignores {
		if matched, err := doublestar.Match(pat, base); err == nil && matched {
			return true
		}
	}
	return false
}

// ReloadOnChange returns an OnChange callback that reloads src. A failed
// reload keeps the previous tree and is reported as the callback's error.
func ReloadOnChange(src *vfs.Source, logger *log.Logger) func(context.Context) error {
	return func(context.Context) error {
		if err := src.Reload(); err != nil {
			return err
		}
		dirs, files := src.Tree().Stats()
		logger.Info("VFS reloaded", "path", src.Path(), "dirs", dirs, "files", files)
		return nil
	}
}
