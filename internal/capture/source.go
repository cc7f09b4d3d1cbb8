// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package capture

import (
	"context"
	"errors"
	"time"
)

// ErrNoFrame is returned by Source.Next when no new frame arrived in time.
var ErrNoFrame = errors.New("no frame received")

// Frame is one captured image.
type Frame struct {
	Seq         uint64
	Time        time.Time
	ContentType string
	Data        []byte
}

// Source delivers frames for one camera.
type Source interface {
	// Next blocks until a frame newer than the last one returned is
	// available, ctx is done, or the source's timeout passes (ErrNoFrame).
	Next(ctx context.Context) (Frame, error)

	// Best returns the highest quality frame available, for snapshots.
	Best() (Frame, bool)

	// Close stops the source. Safe to call more than once.
	Close() error
}
