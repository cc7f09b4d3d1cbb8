// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

// Package camera holds the per-camera worker record shared by the supervisor
// and the capture worker running on it.
//
// The supervisor owns the run state and the registry slot. The worker
// goroutine owns its watchdog counter (it calls Kick on progress), its
// sub-threads and, when it wants to, ShouldRestart. Every field that both
// sides touch is atomic or guarded by the record's mutex.
package camera

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/watchpost/internal/config"
)

// MaxID is the largest camera id accepted from configuration.
const MaxID = 32000

// Counter is the process-wide running count. Sub-threads add themselves to
// it when they start and remove themselves exactly once when they finish.
type Counter interface {
	Inc()
	Dec()
}

type nopCounter struct{}

func (nopCounter) Inc() {}
func (nopCounter) Dec() {}

// Worker is one camera's record.
type Worker struct {
	cfg config.CameraConfig

	id    atomic.Int64
	state atomic.Int32

	shouldRestart atomic.Bool
	watchdog      atomic.Int64

	eventStop atomic.Bool
	finish    atomic.Bool
	snapshot  atomic.Bool
	paused    atomic.Bool

	counter Counter

	mu         sync.Mutex
	thread     Thread
	subs       []*Subthread
	counted    bool
	released   bool
	launches   int
	launchedAt time.Time
	lastErr    error
}

// NewWorker builds an Idle record. Idle records are always launched; a
// record that ran is launched again only if it asked for it.
func NewWorker(cfg config.CameraConfig, counter Counter) *Worker {
	if counter == nil {
		counter = nopCounter{}
	}
	w := &Worker{cfg: cfg, counter: counter, released: true}
	w.id.Store(int64(cfg.ID))
	w.watchdog.Store(int64(cfg.WatchdogTimeout))
	return w
}

// Config returns the camera's configuration. It never changes after construction.
func (w *Worker) Config() config.CameraConfig {
	return w.cfg
}

// ID returns the camera id.
func (w *Worker) ID() int {
	return int(w.id.Load())
}

// SetID changes the camera id. Only used while renumbering at startup.
func (w *Worker) SetID(id int) {
	w.id.Store(int64(id))
}

// Name returns the configured name, or camera<id> when none is configured.
func (w *Worker) Name() string {
	if w.cfg.Name != "" {
		return w.cfg.Name
	}
	return fmt.Sprintf("camera%d", w.ID())
}

// SoftTimeout is the watchdog soft timeout in ticks.
func (w *Worker) SoftTimeout() int {
	return w.cfg.WatchdogTimeout
}

// HardTimeout is how many ticks past the soft timeout the worker gets
// before it is force-cancelled.
func (w *Worker) HardTimeout() int {
	return w.cfg.WatchdogKill
}

// State returns the run state.
func (w *Worker) State() RunState {
	return RunState(w.state.Load())
}

// SetState is called by the supervisor only.
func (w *Worker) SetState(s RunState) {
	w.state.Store(int32(s))
}

// ShouldRestart reports whether the worker asked to be launched again once
// its execution context is gone.
func (w *Worker) ShouldRestart() bool {
	return w.shouldRestart.Load()
}

// SetShouldRestart sets the relaunch request. The worker sets it before a
// normal exit. The supervisor clears it for a worker that must not come back
// and sets it after a failed launch so the launch is retried.
func (w *Worker) SetShouldRestart(v bool) {
	w.shouldRestart.Store(v)
}

// Kick refreshes the watchdog counter to the soft timeout. Workers call it
// whenever they make progress.
func (w *Worker) Kick() {
	w.watchdog.Store(int64(w.cfg.WatchdogTimeout))
}

// Watchdog returns the current counter.
func (w *Worker) Watchdog() int64 {
	return w.watchdog.Load()
}

// DecWatchdog decrements the counter by one and returns the new value.
func (w *Worker) DecWatchdog() int64 {
	return w.watchdog.Add(-1)
}

// RequestEventStop asks the worker to end its current activity.
func (w *Worker) RequestEventStop() { w.eventStop.Store(true) }

// TakeEventStop consumes a pending end-of-activity request.
func (w *Worker) TakeEventStop() bool { return w.eventStop.Swap(false) }

// RequestFinish asks the worker to exit.
func (w *Worker) RequestFinish() { w.finish.Store(true) }

// FinishRequested reports whether the worker has been asked to exit.
func (w *Worker) FinishRequested() bool { return w.finish.Load() }

// ClearFinish resets the exit request after the worker has been reaped.
func (w *Worker) ClearFinish() { w.finish.Store(false) }

// RequestSnapshot asks for a one-shot snapshot.
func (w *Worker) RequestSnapshot() { w.snapshot.Store(true) }

// TakeSnapshot consumes a pending snapshot request.
func (w *Worker) TakeSnapshot() bool { return w.snapshot.Swap(false) }

// SetPaused pauses or resumes detection.
func (w *Worker) SetPaused(v bool) { w.paused.Store(v) }

// Paused reports whether detection is paused.
func (w *Worker) Paused() bool { return w.paused.Load() }

// PrepareLaunch resets the per-run fields before a new execution context is
// created: flags, relaunch request, watchdog counter and finished sub-threads.
func (w *Worker) PrepareLaunch() {
	w.shouldRestart.Store(false)
	w.finish.Store(false)
	w.eventStop.Store(false)
	w.snapshot.Store(false)
	w.Kick()

	w.mu.Lock()
	defer w.mu.Unlock()
	live := w.subs[:0]
	for _, s := range w.subs {
		if !s.Finished() {
			live = append(live, s)
		}
	}
	w.subs = live
	w.lastErr = nil
}

// Attach records a freshly created execution context and marks the worker as
// counted in the running count.
func (w *Worker) Attach(t Thread) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.thread = t
	w.counted = true
	w.released = false
	w.launches++
	w.launchedAt = time.Now()
}

// Thread returns the main execution context, nil before the first launch.
func (w *Worker) Thread() Thread {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.thread
}

// Uncount clears the counted mark. It returns true only for the first call
// after Attach, which is the caller that must decrement the running count.
func (w *Worker) Uncount() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.counted {
		return false
	}
	w.counted = false
	return true
}

// MarkReleased returns true only for the first call after Attach, which is
// the caller that must run the release routine.
func (w *Worker) MarkReleased() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.released {
		return false
	}
	w.released = true
	return true
}

// Released reports whether the current run's resources have been released.
func (w *Worker) Released() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.released
}

// SetLastError records why the last run ended.
func (w *Worker) SetLastError(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastErr = err
}

// LastError returns why the last run ended, nil on a clean exit.
func (w *Worker) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Spawn starts fn on a goroutine and adopts it as a sub-thread. The
// sub-thread is removed from the running count exactly once, either when fn
// returns or when the supervisor finds it dead during forced cancellation.
func (w *Worker) Spawn(ctx context.Context, name string, fn ThreadFunc) *Subthread {
	adopted := make(chan *Subthread, 1)
	t := Go(ctx, func(ctx context.Context, wake <-chan struct{}) error {
		sub := <-adopted
		defer sub.MarkFinished()
		return fn(ctx, wake)
	})
	sub := w.Adopt(name, t)
	adopted <- sub
	return sub
}

// Adopt registers an execution context created elsewhere as a sub-thread
// of this worker and adds it to the running count. The caller must call
// MarkFinished on the result when the context exits.
func (w *Worker) Adopt(name string, t Thread) *Subthread {
	sub := &Subthread{name: name, thread: t, counter: w.counter}
	w.counter.Inc()

	w.mu.Lock()
	w.subs = append(w.subs, sub)
	w.mu.Unlock()
	return sub
}

// Subthreads returns a copy of the sub-thread list.
func (w *Worker) Subthreads() []*Subthread {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*Subthread, len(w.subs))
	copy(out, w.subs)
	return out
}

// Status is a point-in-time view of a worker for the control surface.
type Status struct {
	Position      int       `json:"position"`
	ID            int       `json:"camera_id"`
	Name          string    `json:"name"`
	State         string    `json:"state"`
	Watchdog      int64     `json:"watchdog"`
	SoftTimeout   int       `json:"watchdog_tmo"`
	HardTimeout   int       `json:"watchdog_kill"`
	ShouldRestart bool      `json:"should_restart"`
	Paused        bool      `json:"paused"`
	Subthreads    int       `json:"subthreads"`
	Launches      int       `json:"launches"`
	LaunchedAt    time.Time `json:"launched_at,omitempty"`
	LastError     string    `json:"last_error,omitempty"`
}

// Status returns the worker's current status. position is its registry index.
func (w *Worker) Status(position int) Status {
	st := Status{
		Position:      position,
		ID:            w.ID(),
		Name:          w.Name(),
		State:         w.State().String(),
		Watchdog:      w.Watchdog(),
		SoftTimeout:   w.SoftTimeout(),
		HardTimeout:   w.HardTimeout(),
		ShouldRestart: w.ShouldRestart(),
		Paused:        w.Paused(),
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, s := range w.subs {
		if !s.Finished() {
			st.Subthreads++
		}
	}
	st.Launches = w.launches
	st.LaunchedAt = w.launchedAt
	if w.lastErr != nil {
		st.LastError = w.lastErr.Error()
	}
	return st
}
