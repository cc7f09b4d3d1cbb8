// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package camera

import "sync/atomic"

// Subthread is an auxiliary execution context owned by a worker, for
// example a netcam fetcher.
type Subthread struct {
	name     string
	thread   Thread
	finished atomic.Bool
	counter  Counter
}

// Name returns the sub-thread's name.
func (s *Subthread) Name() string { return s.name }

// Thread returns the execution context handle.
func (s *Subthread) Thread() Thread { return s.thread }

// Finished reports whether the sub-thread has been accounted as finished.
func (s *Subthread) Finished() bool { return s.finished.Load() }

// MarkFinished marks the sub-thread finished and decrements the running
// count. Only the first call does anything; it returns true for that call.
func (s *Subthread) MarkFinished() bool {
	if !s.finished.CompareAndSwap(false, true) {
		return false
	}
	s.counter.Dec()
	return true
}
