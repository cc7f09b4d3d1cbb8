// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package supervisor

import (
	"context"

	"github.com/tomtom215/watchpost/internal/camera"
)

// Runtime is what the supervisor needs from the code that runs on a worker.
type Runtime interface {
	// Start creates the worker's execution context. An error means no
	// context was created.
	Start(ctx context.Context, w *camera.Worker) (camera.Thread, error)

	// Release frees what a run of the worker acquired. It is called once per
	// run, after the execution context has exited.
	Release(w *camera.Worker)
}

// Entry is the body of a worker goroutine.
type Entry func(ctx context.Context, w *camera.Worker, wake <-chan struct{}) error

// GoRuntime runs Entry on a camera.GoThread and has nothing to release.
// An Entry that returns nil asks to be launched again.
type GoRuntime struct {
	Entry Entry
}

// Start implements Runtime.
func (g GoRuntime) Start(ctx context.Context, w *camera.Worker) (camera.Thread, error) {
	return camera.Go(ctx, func(ctx context.Context, wake <-chan struct{}) error {
		err := g.Entry(ctx, w, wake)
		if err == nil {
			w.SetShouldRestart(true)
		}
		return err
	}), nil
}

// Release implements Runtime.
func (g GoRuntime) Release(*camera.Worker) {}

// threadErr returns what an exited execution context returned, when the
// thread type records it.
func threadErr(t camera.Thread) error {
	if e, ok := t.(interface{ Err() error }); ok {
		return e.Err()
	}
	return nil
}
