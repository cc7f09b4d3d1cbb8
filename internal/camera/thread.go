// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package camera

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
)

// Thread is the handle the supervisor holds on an execution context.
// All three methods must be safe to call from any goroutine at any time,
// including after the context has exited.
type Thread interface {
	// Alive is a non-blocking liveness probe.
	Alive() bool
	// Cancel requests forced cancellation.
	Cancel()
	// Interrupt wakes the context out of a blocking wait. It never blocks
	// and may be repeated indefinitely.
	Interrupt()
}

// ThreadFunc is the body of a goroutine started with Go. wake receives a
// value every time the goroutine is interrupted.
type ThreadFunc func(ctx context.Context, wake <-chan struct{}) error

// GoThread runs a ThreadFunc on its own goroutine.
type GoThread struct {
	cancel context.CancelFunc
	done   chan struct{}
	wake   chan struct{}

	mu  sync.Mutex
	err error
}

var _ Thread = (*GoThread)(nil)

// Go starts fn on a new goroutine with a context derived from parent.
// A panic in fn is recovered and reported through Err.
func Go(parent context.Context, fn ThreadFunc) *GoThread {
	ctx, cancel := context.WithCancel(parent)
	t := &GoThread{
		cancel: cancel,
		done:   make(chan struct{}),
		wake:   make(chan struct{}, 1),
	}

	go func() {
		defer close(t.done)
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				t.setErr(fmt.Errorf("panic: %v\n%s", r, debug.Stack()))
			}
		}()
		t.setErr(fn(ctx, t.wake))
	}()
	return t
}

// Alive reports whether the goroutine is still running.
func (t *GoThread) Alive() bool {
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// Cancel cancels the goroutine's context.
func (t *GoThread) Cancel() {
	t.cancel()
}

// Interrupt delivers a wake-up. Pending wake-ups are not queued twice.
func (t *GoThread) Interrupt() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

// Done is closed when the goroutine returns.
func (t *GoThread) Done() <-chan struct{} {
	return t.done
}

// Err returns what the goroutine returned. Only meaningful after Done.
func (t *GoThread) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *GoThread) setErr(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err == nil {
		t.err = err
	}
}
