// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package supervisor

import (
	"context"

	"github.com/tomtom215/watchpost/internal/camera"
	"github.com/tomtom215/watchpost/internal/events"
	"github.com/tomtom215/watchpost/internal/logging"
	"github.com/tomtom215/watchpost/internal/metrics"
)

// launcher starts execution contexts for eligible workers.
type launcher struct {
	reg     *Registry
	runtime Runtime
	emit    events.Emitter
	ctx     context.Context
}

// eligible reports whether w should be launched now: never-launched workers
// always, cleaned ones only when they asked for a relaunch.
func eligible(reg *Registry, w *camera.Worker) bool {
	if reg.FinishAll() {
		return false
	}
	switch w.State() {
	case camera.Idle:
		return true
	case camera.Cleaned:
		return w.ShouldRestart()
	}
	return false
}

// launchEligible launches every eligible worker and returns how many started.
func (l *launcher) launchEligible() int {
	started := 0
	for i, w := range l.reg.Snapshot() {
		if eligible(l.reg, w) && l.launch(w, i) == nil {
			started++
		}
	}
	return started
}

// launch starts w. On failure w keeps its state and its relaunch request is
// set, so it is retried next tick and keeps the loop alive.
func (l *launcher) launch(w *camera.Worker, position int) error {
	relaunch := w.State() == camera.Cleaned
	w.PrepareLaunch()

	t, err := l.runtime.Start(l.ctx, w)
	metrics.RecordLaunch(err)
	if err != nil {
		w.SetShouldRestart(true)
		logging.Warn().Err(err).Int("camera_id", w.ID()).Str("camera", w.Name()).
			Msg("Failed to start camera worker, retrying next tick")
		l.emit.Emit(workerEvent(events.KindLaunchFailed, w, position, err.Error()))
		return err
	}

	w.Attach(t)
	w.SetState(camera.Running)
	l.reg.Inc()

	logging.Info().Int("camera_id", w.ID()).Str("camera", w.Name()).Bool("relaunch", relaunch).
		Msg("Camera worker started")
	l.emit.Emit(workerEvent(events.KindLaunched, w, position, ""))
	return nil
}

// workerEvent builds an event about one worker.
func workerEvent(kind events.Kind, w *camera.Worker, position int, detail string) events.Event {
	e := events.New(kind)
	e.CameraID = w.ID()
	e.Camera = w.Name()
	e.Position = position
	e.State = w.State().String()
	e.Detail = detail
	return e
}
