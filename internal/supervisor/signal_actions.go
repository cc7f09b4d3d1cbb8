// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package supervisor

import (
	"github.com/tomtom215/watchpost/internal/events"
	"github.com/tomtom215/watchpost/internal/logging"
	"github.com/tomtom215/watchpost/internal/metrics"
	"github.com/tomtom215/watchpost/internal/signals"
)

// handleSignal takes the pending action, if any, and applies it to every
// worker. Actions raised more than once between ticks are applied once.
func (c *Controller) handleSignal(reg *Registry) {
	kind := c.relay.Take()
	if kind == signals.None {
		return
	}
	coalesced := c.relay.TakeCoalesced()
	metrics.RecordSignal(kind.String(), coalesced)

	logging.Info().Str("action", kind.String()).Int64("coalesced", coalesced).Msg("Handling action")
	e := events.New(events.KindSignal)
	e.Detail = kind.String()
	c.emit.Emit(e)

	workers := reg.Snapshot()
	switch kind {
	case signals.Alarm:
		for _, w := range workers {
			if w.Config().SnapshotInterval > 0 {
				w.RequestSnapshot()
			}
		}

	case signals.User1:
		for _, w := range workers {
			w.RequestEventStop()
		}

	case signals.Reload:
		reg.restartAll.Store(true)
		fallthrough

	case signals.Terminate:
		for _, w := range workers {
			w.RequestEventStop()
			w.RequestFinish()
			w.SetShouldRestart(false)
		}
		reg.finishAll.Store(true)
	}
}
