// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package supervisor

import (
	"sync"
	"sync/atomic"

	"github.com/tomtom215/watchpost/internal/camera"
	"github.com/tomtom215/watchpost/internal/config"
	"github.com/tomtom215/watchpost/internal/logging"
	"github.com/tomtom215/watchpost/internal/metrics"
)

// Values of Registry.pending other than a remove index.
const (
	opNone = -1
	opAdd  = -2
)

// Registry is the ordered set of camera workers plus the process-wide
// supervision flags.
//
// Two locks, never nested: structMu guards the worker slice, countMu guards
// the running count. The pending mutation and the finish flags are atomics so
// the control surface can set them without either lock. pending holds one
// request at a time: opNone, opAdd or the index of the worker to remove.
type Registry struct {
	structMu sync.Mutex
	workers  []*camera.Worker
	template config.CameraConfig

	countMu sync.Mutex
	running int

	pending    atomic.Int64
	finishAll  atomic.Bool
	restartAll atomic.Bool
}

var _ camera.Counter = (*Registry)(nil)

// NewRegistry builds an Idle worker for every camera. template is used for
// cameras added later.
func NewRegistry(template config.CameraConfig, cameras []config.CameraConfig) *Registry {
	r := &Registry{template: template}
	r.pending.Store(opNone)
	r.workers = make([]*camera.Worker, 0, len(cameras))
	for _, cfg := range cameras {
		r.workers = append(r.workers, camera.NewWorker(cfg, r))
	}
	metrics.SetConfigured(len(r.workers))
	return r
}

// Inc adds one execution context to the running count.
func (r *Registry) Inc() {
	r.countMu.Lock()
	r.running++
	n := r.running
	r.countMu.Unlock()
	metrics.SetRunning(n)
}

// Dec removes one execution context from the running count. The count never
// goes below zero; an unmatched decrement is logged.
func (r *Registry) Dec() {
	r.countMu.Lock()
	if r.running == 0 {
		r.countMu.Unlock()
		logging.Error().Msg("Running count decremented below zero, ignoring")
		return
	}
	r.running--
	n := r.running
	r.countMu.Unlock()
	metrics.SetRunning(n)
}

// Running returns the running count.
func (r *Registry) Running() int {
	r.countMu.Lock()
	defer r.countMu.Unlock()
	return r.running
}

// Snapshot returns a copy of the worker slice for iteration without the lock.
func (r *Registry) Snapshot() []*camera.Worker {
	r.structMu.Lock()
	defer r.structMu.Unlock()
	out := make([]*camera.Worker, len(r.workers))
	copy(out, r.workers)
	return out
}

// Len returns the number of workers.
func (r *Registry) Len() int {
	r.structMu.Lock()
	defer r.structMu.Unlock()
	return len(r.workers)
}

// Statuses returns every worker's status in registry order.
func (r *Registry) Statuses() []camera.Status {
	workers := r.Snapshot()
	out := make([]camera.Status, len(workers))
	for i, w := range workers {
		out[i] = w.Status(i)
	}
	return out
}

// Template returns the configuration new cameras are built from.
func (r *Registry) Template() config.CameraConfig {
	return r.template
}

// RequestAdd marks an add as pending.
func (r *Registry) RequestAdd() error {
	if r.finishAll.Load() {
		return ErrShuttingDown
	}
	if !r.pending.CompareAndSwap(opNone, opAdd) {
		return ErrMutationPending
	}
	return nil
}

// RequestRemove marks the worker at index as pending removal. The index is
// checked against the registry length when the request is applied.
func (r *Registry) RequestRemove(index int) error {
	if index < 0 {
		return ErrIndexOutOfRange
	}
	if r.finishAll.Load() {
		return ErrShuttingDown
	}
	if !r.pending.CompareAndSwap(opNone, int64(index)) {
		return ErrMutationPending
	}
	return nil
}

// PendingAdd reports whether an add is pending.
func (r *Registry) PendingAdd() bool {
	return r.pending.Load() == opAdd
}

// PendingRemove returns the pending remove index.
func (r *Registry) PendingRemove() (int, bool) {
	v := r.pending.Load()
	return int(v), v >= 0
}

func (r *Registry) clearPending() { r.pending.Store(opNone) }

// FinishAll reports whether termination has begun.
func (r *Registry) FinishAll() bool { return r.finishAll.Load() }

// RestartAll reports whether a full restart was requested.
func (r *Registry) RestartAll() bool { return r.restartAll.Load() }

// normalizeIDs applies the configured ids. A camera without an id gets its
// position. If any id is duplicated or above camera.MaxID, every camera
// falls back to its position. Returns true when the fallback was used.
func (r *Registry) normalizeIDs() bool {
	r.structMu.Lock()
	defer r.structMu.Unlock()

	seen := make(map[int]bool, len(r.workers))
	valid := true
	for i, w := range r.workers {
		id := w.Config().ID
		if id <= 0 {
			id = i
		}
		if id > camera.MaxID || seen[id] {
			valid = false
		}
		seen[id] = true
		w.SetID(id)
	}
	if valid {
		return false
	}
	for i, w := range r.workers {
		w.SetID(i)
	}
	return true
}

// add appends a worker built from the template with id max+1.
func (r *Registry) add() (*camera.Worker, int) {
	r.structMu.Lock()
	defer r.structMu.Unlock()

	maxID := -1
	for _, w := range r.workers {
		if id := w.ID(); id > maxID {
			maxID = id
		}
	}
	cfg := r.template
	cfg.ID = maxID + 1
	cfg.Name = ""
	w := camera.NewWorker(cfg, r)
	r.workers = append(r.workers, w)
	metrics.SetConfigured(len(r.workers))
	return w, len(r.workers) - 1
}

// removeAt removes the worker at index if it is not running. A running
// worker is asked to stop and errRemoveDeferred is returned.
func (r *Registry) removeAt(index int) (*camera.Worker, error) {
	r.structMu.Lock()
	defer r.structMu.Unlock()

	if index < 0 || index >= len(r.workers) {
		return nil, ErrIndexOutOfRange
	}
	if len(r.workers) == 1 {
		return nil, ErrLastCamera
	}
	w := r.workers[index]
	if w.State().Active() {
		w.SetShouldRestart(false)
		w.RequestEventStop()
		w.RequestFinish()
		return w, errRemoveDeferred
	}

	copy(r.workers[index:], r.workers[index+1:])
	r.workers[len(r.workers)-1] = nil
	r.workers = r.workers[:len(r.workers)-1]
	metrics.SetConfigured(len(r.workers))
	return w, nil
}
