// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package camera

// RunState is the supervisor's view of a worker.
type RunState int32

const (
	// Idle: never launched.
	Idle RunState = iota
	// Running: launched and not asked to stop.
	Running
	// StopRequested: the watchdog asked the worker to finish on its own.
	StopRequested
	// Cancelling: the worker was force-cancelled and is being waited for.
	Cancelling
	// Killed: a force-cancelled worker whose goroutine has exited.
	Killed
	// Cleaned: exited and released; may be launched again.
	Cleaned
)

var stateNames = [...]string{
	Idle:          "idle",
	Running:       "running",
	StopRequested: "stop_requested",
	Cancelling:    "cancelling",
	Killed:        "killed",
	Cleaned:       "cleaned",
}

func (s RunState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Active reports whether a worker in this state owns a live execution context
// (or one that has not been reaped yet).
func (s RunState) Active() bool {
	return s != Idle && s != Cleaned
}

// Launchable reports whether a worker in this state may be launched.
func (s RunState) Launchable() bool {
	return s == Idle || s == Cleaned
}
