// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package signals

import (
	"os"
	"os/signal"
	"sync"
)

// Subscription forwards OS signals into a Relay until stopped.
type Subscription struct {
	ch   chan os.Signal
	done chan struct{}
	once sync.Once
}

// Notify subscribes the relay to the platform's process signals. The
// returned subscription must be stopped to restore default handling.
func (r *Relay) Notify() *Subscription {
	s := &Subscription{
		ch:   make(chan os.Signal, 4),
		done: make(chan struct{}),
	}
	signal.Notify(s.ch, watched...)

	go func() {
		for {
			select {
			case sig := <-s.ch:
				r.Raise(kindOf(sig))
			case <-s.done:
				return
			}
		}
	}()
	return s
}

// Stop restores default signal handling. It is safe to call more than once.
func (s *Subscription) Stop() {
	s.once.Do(func() {
		signal.Stop(s.ch)
		close(s.done)
	})
}
