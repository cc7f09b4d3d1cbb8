// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package supervisor

import (
	"errors"
	"strconv"

	"github.com/tomtom215/watchpost/internal/camera"
	"github.com/tomtom215/watchpost/internal/events"
	"github.com/tomtom215/watchpost/internal/logging"
	"github.com/tomtom215/watchpost/internal/metrics"
)

// topology applies pending add/remove requests once per tick.
type topology struct {
	reg     *Registry
	runtime Runtime
	emit    events.Emitter

	// deferred is the worker whose removal is waiting for it to stop; the
	// wait is logged once per request.
	deferred *camera.Worker
}

// apply performs at most one pending mutation.
func (tp *topology) apply() {
	if tp.reg.PendingAdd() {
		tp.add()
		return
	}
	if index, ok := tp.reg.PendingRemove(); ok {
		tp.remove(index)
	}
}

func (tp *topology) add() {
	w, position := tp.reg.add()
	tp.reg.clearPending()

	logging.Info().Int("camera_id", w.ID()).Int("position", position).Int("cameras", tp.reg.Len()).
		Msg("Camera added")
	metrics.RecordTopology("add", "applied")
	tp.emit.Emit(workerEvent(events.KindAdded, w, position, ""))
}

func (tp *topology) remove(index int) {
	w, err := tp.reg.removeAt(index)
	switch {
	case errors.Is(err, errRemoveDeferred):
		if tp.deferred != w {
			tp.deferred = w
			logging.Info().Int("camera_id", w.ID()).Int("position", index).
				Msg("Camera removal waiting for worker to stop")
			metrics.RecordTopology("remove", "deferred")
		}
		return

	case err != nil:
		tp.reg.clearPending()
		tp.deferred = nil
		logging.Warn().Err(err).Int("position", index).Int("cameras", tp.reg.Len()).
			Msg("Camera removal rejected")
		metrics.RecordTopology("remove", "rejected")
		e := events.New(events.KindRemoveRejected)
		e.Position = index
		e.Detail = err.Error()
		tp.emit.Emit(e)
		return
	}

	tp.reg.clearPending()
	tp.deferred = nil
	if w.MarkReleased() {
		tp.runtime.Release(w)
	}

	logging.Info().Int("camera_id", w.ID()).Int("position", index).Int("cameras", tp.reg.Len()).
		Msg("Camera removed")
	metrics.RecordTopology("remove", "applied")
	tp.emit.Emit(workerEvent(events.KindRemoved, w, index, "position "+strconv.Itoa(index)))
}
