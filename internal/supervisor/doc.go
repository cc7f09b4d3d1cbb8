// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

/*
Package supervisor keeps camera workers alive.

It has two halves. The camera controller is a single-goroutine tick loop that
launches workers, escalates against workers that stop making progress, applies
pending actions and camera add/remove requests, and decides when the daemon
is done. The service tree is a suture v4 hierarchy that hosts the controller
next to the ancillary services (event dispatcher, websocket hub, HTTP control
surface).

# Controller

One tick, in order:

 1. Unless shutting down, launch every Idle worker and every Cleaned worker
    that asked for a relaunch. A worker asks by setting ShouldRestart before
    it exits normally; a failed launch sets it too, so it is retried.
 2. Watchdog pass over a snapshot of the registry.
 3. Take the pending action from the signal relay and apply it.
 4. Apply at most one pending add or remove.
 5. Publish statuses.
 6. Stop when no worker is active or waiting to be launched, and either
    termination was requested or the running count is zero.

Watchdog escalation for a worker that never calls Kick:

	Running ──(counter == 0)──▶ StopRequested ──(counter == -watchdog_kill)──▶ Cancelling
	   ▲                                                                         │
	   └──── relaunch ◀── Cleaned ◀── Killed ◀──── main context exited ◀─────────┘

A worker that leaves StopRequested by exiting on its own has asked for a
relaunch and is started again on the next tick. A cancelled one normally
returns an error, does not ask, and stays Cleaned.

StopRequested sets the worker's event-stop and finish flags and waits. Cancelling
cancels the worker's context and every unfinished sub-thread, then probes them
every tick: a dead sub-thread leaves the running count, a live one is
interrupted again. A goroutine that ignores its context cannot be stopped from
outside; such a worker stays Cancelling.

The running count is the number of live execution contexts, sub-threads
included. Each context leaves it exactly once: the supervisor uncounts a main
context when it reaps it, a sub-thread uncounts itself (or is uncounted by the
probe) through a compare-and-swap on its finished flag.

# Actions

	Alarm      snapshot on every camera with snapshot_interval set
	User1      end the current event on every camera
	Reload     Terminate, then tear down and start again from configuration
	Terminate  finish every camera and stop

Only the latest action raised between two ticks is applied.

# Topology

RequestAdd and RequestRemove only set a pending flag; the tick applies it. An
added camera copies the defaults section with id max+1. A running camera is
asked to stop first and removed once reaped. The last camera cannot be
removed.

# Tree

	watchpost
	├── core-layer       ControllerService
	├── messaging-layer  DispatcherService, WebSocketHubService
	└── api-layer        HTTPServerService

The controller service ends the process when Controller.Run returns.

# Thread Safety

Controller.Run and Controller.Tick must be called from one goroutine. The
control methods (Statuses, RequestAdd, RequestRemove, Raise, Running) are safe
from any goroutine.
*/
package supervisor
