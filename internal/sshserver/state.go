// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

const (
	// StateCreated indicates the server has been created but not started.
	StateCreated State = iota
	// StateStarting indicates the server is binding its listener.
	StateStarting
	// StateRunning indicates the server is accepting connections.
	StateRunning
	// StateStopping indicates the server is shutting down.
	StateStopping
	// StateStopped indicates the server has stopped (terminal state).
	StateStopped
	// StateFailed indicates the server failed to start or serve (terminal state).
	StateFailed
)

type (
	// State is the lifecycle state of a Server.
	State int32

	// lifecycle tracks state transitions and background goroutines.
	// A server is single-use: once stopped or failed, create a new one.
	lifecycle struct {
		state atomic.Int32

		mu      sync.Mutex
		lastErr error

		cancel  context.CancelFunc
		wg      sync.WaitGroup
		started chan struct{}
		done    chan struct{}
		errCh   chan error
	}
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func newLifecycle() *lifecycle {
	return &lifecycle{
		started: make(chan struct{}),
		done:    make(chan struct{}),
		errCh:   make(chan error, 1),
	}
}

func (l *lifecycle) current() State {
	return State(l.state.Load())
}

// begin moves Created to Starting. A canceled ctx fails the server before
// any resource is acquired.
func (l *lifecycle) begin(ctx context.Context) (context.Context, error) {
	if err := ctx.Err(); err != nil {
		return nil, l.fail(fmt.Errorf("context canceled before start: %w", err))
	}
	if !l.state.CompareAndSwap(int32(StateCreated), int32(StateStarting)) {
		return nil, fmt.Errorf("cannot start server in state %s", l.current())
	}

	var serveCtx context.Context
	serveCtx, l.cancel = context.WithCancel(context.Background())
	return serveCtx, nil
}

func (l *lifecycle) running() {
	if l.state.CompareAndSwap(int32(StateStarting), int32(StateRunning)) {
		close(l.started)
	}
}

// fail records err, cancels background work and reports err on the error
// channel when there is room. It returns err.
func (l *lifecycle) fail(err error) error {
	l.mu.Lock()
	l.lastErr = err
	l.mu.Unlock()

	l.state.Store(int32(StateFailed))
	if l.cancel != nil {
		l.cancel()
	}
	l.report(err)
	l.finish()
	return err
}

func (l *lifecycle) report(err error) {
	select {
	case l.errCh <- err:
	default:
	}
}

// stopping moves a started server to Stopping. It returns false when there
// is nothing to shut down; a server that never started becomes Stopped.
func (l *lifecycle) stopping() bool {
	for {
		switch cur := l.current(); cur {
		case StateCreated:
			if l.state.CompareAndSwap(int32(StateCreated), int32(StateStopped)) {
				l.finish()
				return false
			}
		case StateStarting, StateRunning:
			if l.state.CompareAndSwap(int32(cur), int32(StateStopping)) {
				if l.cancel != nil {
					l.cancel()
				}
				return true
			}
		default:
			return false
		}
	}
}

func (l *lifecycle) stopped() {
	l.state.Store(int32(StateStopped))
	l.finish()
}

// finish closes done once.
func (l *lifecycle) finish() {
	l.mu.Lock()
	defer l.mu.Unlock()
	select {
	case <-l.done:
	default:
		close(l.done)
	}
}

func (l *lifecycle) lastError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}
