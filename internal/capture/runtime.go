// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package capture

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/tomtom215/watchpost/internal/camera"
	"github.com/tomtom215/watchpost/internal/logging"
	"github.com/tomtom215/watchpost/internal/metrics"
)

// retryPause is how long the loop waits after a failed frame before trying again.
const retryPause = 500 * time.Millisecond

// Runtime runs capture loops on camera workers.
type Runtime struct {
	transport http.RoundTripper

	mu        sync.Mutex
	sources   map[*camera.Worker]Source
	snapshots map[*camera.Worker]Frame
}

// NewRuntime creates a Runtime. transport is used for netcam requests;
// nil means http.DefaultTransport.
func NewRuntime(transport http.RoundTripper) *Runtime {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Runtime{
		transport: transport,
		sources:   make(map[*camera.Worker]Source),
		snapshots: make(map[*camera.Worker]Frame),
	}
}

// Start opens w's source and starts its capture loop.
func (r *Runtime) Start(ctx context.Context, w *camera.Worker) (camera.Thread, error) {
	src, err := r.open(ctx, w)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.sources[w] = src
	r.mu.Unlock()

	return camera.Go(ctx, func(ctx context.Context, wake <-chan struct{}) error {
		err := r.loop(ctx, w, src, wake)
		if err == nil {
			// A clean exit asks for a relaunch. The supervisor ignores it
			// while shutting down.
			w.SetShouldRestart(true)
		}
		return err
	}), nil
}

func (r *Runtime) open(ctx context.Context, w *camera.Worker) (Source, error) {
	if w.Config().NetcamURL == "" {
		return newPatternSource(w.Config().FrameRate), nil
	}
	return openNetcam(ctx, w, r.transport)
}

// Release closes the source opened by the last Start for w and drops its
// snapshot.
func (r *Runtime) Release(w *camera.Worker) {
	r.mu.Lock()
	src, ok := r.sources[w]
	delete(r.sources, w)
	delete(r.snapshots, w)
	r.mu.Unlock()

	if ok {
		if err := src.Close(); err != nil {
			logging.Warn().Err(err).Int("camera_id", w.ID()).Msg("Failed to close camera source")
		}
	}
}

// Snapshot returns the latest snapshot taken by the running camera with
// the given id.
func (r *Runtime) Snapshot(cameraID int) (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for w, frame := range r.snapshots {
		if w.ID() == cameraID {
			return frame, true
		}
	}
	return Frame{}, false
}

func (r *Runtime) loop(ctx context.Context, w *camera.Worker, src Source, wake <-chan struct{}) error {
	log := logging.Camera(w.ID(), w.Name())
	log.Info().Msg("Capture started")

	var interval <-chan time.Time
	if n := w.Config().SnapshotInterval; n > 0 {
		ticker := time.NewTicker(time.Duration(n) * time.Second)
		defer ticker.Stop()
		interval = ticker.C
	}

	inEvent := false
	for !w.FinishRequested() {
		frame, err := src.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !errors.Is(err, ErrNoFrame) {
				log.Warn().Err(err).Msg("Frame capture failed")
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-wake:
			case <-time.After(retryPause):
			}
			continue
		}

		w.Kick()
		metrics.RecordFrame(w.ID())
		if !w.Paused() {
			inEvent = true
		}

		if w.TakeSnapshot() {
			r.snapshot(w, src, frame, "signal")
		}
		select {
		case <-interval:
			r.snapshot(w, src, frame, "interval")
		default:
		}

		if w.TakeEventStop() && inEvent {
			inEvent = false
			log.Info().Msg("Event ended")
		}
	}

	log.Info().Msg("Capture finished")
	return nil
}

func (r *Runtime) snapshot(w *camera.Worker, src Source, frame Frame, trigger string) {
	if best, ok := src.Best(); ok {
		frame = best
	}
	r.mu.Lock()
	r.snapshots[w] = frame
	r.mu.Unlock()

	metrics.RecordSnapshot(w.ID(), trigger)
	logging.Debug().Int("camera_id", w.ID()).Str("trigger", trigger).Int("bytes", len(frame.Data)).Msg("Snapshot taken")
}
