// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package supervisor

import (
	"github.com/tomtom215/watchpost/internal/camera"
	"github.com/tomtom215/watchpost/internal/events"
	"github.com/tomtom215/watchpost/internal/logging"
	"github.com/tomtom215/watchpost/internal/metrics"
)

// watchdog escalates recovery for workers that stop refreshing their counter:
// soft stop at zero, forced cancellation at -hard, then probing until the
// execution contexts are gone.
type watchdog struct {
	reg     *Registry
	runtime Runtime
	emit    events.Emitter
}

// check runs one tick of escalation and reaping for w.
func (wd *watchdog) check(w *camera.Worker, position int) {
	state := w.State()
	if !state.Active() {
		return
	}

	v := w.DecWatchdog()
	hard := -int64(w.HardTimeout())

	switch state {
	case camera.Running:
		if v == 0 {
			wd.softStop(w, position)
			if v == hard {
				wd.forceCancel(w, position)
			}
		}
	case camera.StopRequested:
		if v == hard {
			wd.forceCancel(w, position)
		}
	case camera.Cancelling:
		wd.probe(w, position)
	}

	wd.reap(w, position)
}

func (wd *watchdog) softStop(w *camera.Worker, position int) {
	w.RequestEventStop()
	w.RequestFinish()
	w.SetState(camera.StopRequested)

	logging.Error().Int("camera_id", w.ID()).Str("camera", w.Name()).
		Msg("Camera watchdog timeout, attempting graceful restart")
	metrics.RecordEscalation("soft_stop")
	wd.emit.Emit(workerEvent(events.KindSoftStop, w, position, ""))
}

func (wd *watchdog) forceCancel(w *camera.Worker, position int) {
	w.SetState(camera.Cancelling)
	if t := w.Thread(); t != nil {
		t.Cancel()
	}
	for _, s := range w.Subthreads() {
		if !s.Finished() {
			s.Thread().Cancel()
		}
	}

	logging.Error().Int("camera_id", w.ID()).Str("camera", w.Name()).
		Msg("Camera watchdog timeout did not stop gracefully, force-cancelling")
	metrics.RecordEscalation("force_cancel")
	wd.emit.Emit(workerEvent(events.KindForceCancel, w, position, ""))
}

// probe checks the sub-threads and the main context of a cancelling worker.
// Dead sub-threads leave the running count; live ones are woken again.
func (wd *watchdog) probe(w *camera.Worker, position int) {
	for _, s := range w.Subthreads() {
		if s.Finished() {
			continue
		}
		if s.Thread().Alive() {
			s.Thread().Interrupt()
			continue
		}
		if s.MarkFinished() {
			logging.Warn().Int("camera_id", w.ID()).Str("subthread", s.Name()).
				Msg("Cancelled sub-thread exited")
			metrics.RecordEscalation("subthread_reaped")
			wd.emit.Emit(workerEvent(events.KindSubthreadReaped, w, position, s.Name()))
		}
	}
	if t := w.Thread(); t != nil && t.Alive() {
		t.Interrupt()
	}
}

// reap cleans up a worker whose main context has exited.
func (wd *watchdog) reap(w *camera.Worker, position int) {
	t := w.Thread()
	if t == nil || t.Alive() {
		return
	}

	killed := w.State() == camera.Cancelling
	if killed {
		w.SetState(camera.Killed)
		metrics.RecordEscalation("killed")
		wd.emit.Emit(workerEvent(events.KindKilled, w, position, ""))
	}

	// Sub-threads do not outlive their worker.
	for _, s := range w.Subthreads() {
		if !s.Finished() {
			s.Thread().Cancel()
		}
	}

	err := threadErr(t)
	w.SetLastError(err)
	if w.MarkReleased() {
		wd.runtime.Release(w)
	}
	w.SetState(camera.Cleaned)
	if w.Uncount() {
		wd.reg.Dec()
	}
	w.ClearFinish()
	metrics.RecordExit(killed, err)

	logging.Err(err).Int("camera_id", w.ID()).Str("camera", w.Name()).Bool("killed", killed).
		Bool("restart", w.ShouldRestart()).Msg("Camera worker exited")

	detail := ""
	if err != nil {
		detail = err.Error()
	}
	wd.emit.Emit(workerEvent(events.KindCleaned, w, position, detail))
}
