// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package supervisor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/watchpost/internal/camera"
	"github.com/tomtom215/watchpost/internal/config"
	"github.com/tomtom215/watchpost/internal/events"
)

// fakeThread is an execution context whose liveness the test controls.
// It ignores cancellation, like a goroutine stuck in a blocking call.
// A main thread exiting with a nil error asks for a relaunch, the way the
// capture loop does.
type fakeThread struct {
	worker *camera.Worker

	alive      atomic.Bool
	cancels    atomic.Int32
	interrupts atomic.Int32

	mu  sync.Mutex
	err error
}

func newFakeThread() *fakeThread {
	t := &fakeThread{}
	t.alive.Store(true)
	return t
}

func (t *fakeThread) Alive() bool { return t.alive.Load() }
func (t *fakeThread) Cancel()     { t.cancels.Add(1) }
func (t *fakeThread) Interrupt()  { t.interrupts.Add(1) }

func (t *fakeThread) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *fakeThread) exit(err error) {
	t.mu.Lock()
	t.err = err
	t.mu.Unlock()
	if err == nil && t.worker != nil {
		t.worker.SetShouldRestart(true)
	}
	t.alive.Store(false)
}

var errDeviceBusy = errors.New("device busy")

// fakeRuntime hands out fakeThreads and counts releases.
type fakeRuntime struct {
	fail atomic.Bool

	mu       sync.Mutex
	threads  map[*camera.Worker][]*fakeThread
	releases map[*camera.Worker]int
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{
		threads:  make(map[*camera.Worker][]*fakeThread),
		releases: make(map[*camera.Worker]int),
	}
}

func (r *fakeRuntime) Start(_ context.Context, w *camera.Worker) (camera.Thread, error) {
	if r.fail.Load() {
		return nil, errDeviceBusy
	}
	t := newFakeThread()
	t.worker = w
	r.mu.Lock()
	r.threads[w] = append(r.threads[w], t)
	r.mu.Unlock()
	return t, nil
}

func (r *fakeRuntime) Release(w *camera.Worker) {
	r.mu.Lock()
	r.releases[w]++
	r.mu.Unlock()
}

func (r *fakeRuntime) last(w *camera.Worker) *fakeThread {
	r.mu.Lock()
	defer r.mu.Unlock()
	ts := r.threads[w]
	if len(ts) == 0 {
		return nil
	}
	return ts[len(ts)-1]
}

func (r *fakeRuntime) launches(w *camera.Worker) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.threads[w])
}

func (r *fakeRuntime) launchCounts(workers []*camera.Worker) []int {
	out := make([]int, len(workers))
	for i, w := range workers {
		out[i] = r.launches(w)
	}
	return out
}

func (r *fakeRuntime) released(w *camera.Worker) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.releases[w]
}

// flakyRuntime runs real goroutines but fails to start them while fail is set.
type flakyRuntime struct {
	GoRuntime
	fail     atomic.Bool
	failures atomic.Int32
}

func (r *flakyRuntime) Start(ctx context.Context, w *camera.Worker) (camera.Thread, error) {
	if r.fail.Load() {
		r.failures.Add(1)
		return nil, errDeviceBusy
	}
	return r.GoRuntime.Start(ctx, w)
}

// eventLog records emitted events.
type eventLog struct {
	mu     sync.Mutex
	events []events.Event
}

func (l *eventLog) Emit(e events.Event) {
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

func (l *eventLog) count(kind events.Kind) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// testConfig returns a configuration with one camera per id. An id of 0
// leaves the camera to be numbered by position.
func testConfig(soft, hard int, ids ...int) *config.Config {
	cfg := config.Default()
	cfg.Daemon.TickInterval = time.Millisecond
	cfg.Daemon.RestartDelay = time.Millisecond
	cfg.Daemon.ShutdownTimeout = time.Second
	cfg.Defaults.WatchdogTimeout = soft
	cfg.Defaults.WatchdogKill = hard
	cfg.Cameras = nil
	for _, id := range ids {
		cam := cfg.Defaults
		cam.ID = id
		cfg.Cameras = append(cfg.Cameras, cam)
	}
	return cfg
}

type harness struct {
	c   *Controller
	rt  *fakeRuntime
	log *eventLog
}

// startHarness builds a controller on fakes and runs Startup. Ticks are
// driven by the test.
func startHarness(t *testing.T, cfg *config.Config, collabs ...Collaborator) *harness {
	t.Helper()
	h := &harness{rt: newFakeRuntime(), log: &eventLog{}}
	c, err := New(Options{
		Load:          func() (*config.Config, error) { return cfg, nil },
		Runtime:       h.rt,
		Emitter:       h.log,
		Collaborators: collabs,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := c.Startup(); err != nil {
		t.Fatalf("Startup() error = %v", err)
	}
	h.c = c
	return h
}

func (h *harness) ticks(n int) bool {
	done := false
	for i := 0; i < n; i++ {
		done = h.c.Tick()
	}
	return done
}

func (h *harness) workers() []*camera.Worker {
	return h.c.registry().Snapshot()
}

func (h *harness) ids() []int {
	var ids []int
	for _, w := range h.workers() {
		ids = append(ids, w.ID())
	}
	return ids
}

// fakeCollaborator records Start and Stop calls.
type fakeCollaborator struct {
	name  string
	calls *[]string
}

func (f *fakeCollaborator) Name() string { return f.name }

func (f *fakeCollaborator) Start(context.Context, *config.Config) error {
	*f.calls = append(*f.calls, "start:"+f.name)
	return nil
}

func (f *fakeCollaborator) Stop(_ context.Context, restarting bool) error {
	suffix := ""
	if restarting {
		suffix = ":restarting"
	}
	*f.calls = append(*f.calls, "stop:"+f.name+suffix)
	return nil
}
