// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

// Package signals turns asynchronous process signals into a single pending
// action that the supervisor's tick loop picks up.
//
// The relay is one atomic slot. Whatever delivers a signal only stores its
// code there; no locks are taken, nothing is allocated and nothing is logged
// on that path. When two signals arrive within one tick the later one wins.
package signals

import (
	"strings"
	"sync/atomic"
)

// Kind identifies a pending action.
type Kind int32

const (
	// None means no action is pending.
	None Kind = iota
	// Alarm requests a one-shot snapshot on cameras with a snapshot interval.
	Alarm
	// User1 ends the current event on every camera.
	User1
	// Reload stops everything and starts again from the configuration.
	Reload
	// Terminate stops everything and exits.
	Terminate
)

var kindNames = [...]string{
	None:      "none",
	Alarm:     "alarm",
	User1:     "user1",
	Reload:    "reload",
	Terminate: "terminate",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind maps an action name (as used by the control API) to a Kind.
// The aliases snapshot, eventend, restart and quit follow the web control
// vocabulary.
func ParseKind(name string) (Kind, bool) {
	switch strings.ToLower(name) {
	case "alarm", "snapshot":
		return Alarm, true
	case "user1", "eventend", "event_end":
		return User1, true
	case "reload", "restart":
		return Reload, true
	case "terminate", "quit", "end":
		return Terminate, true
	}
	return None, false
}

// Relay is the single-slot signal cell. The zero value is ready to use.
type Relay struct {
	slot      atomic.Int32
	coalesced atomic.Int64
}

// NewRelay returns an empty relay.
func NewRelay() *Relay {
	return &Relay{}
}

// Raise stores kind, overwriting whatever was pending. Raising None is a no-op.
func (r *Relay) Raise(kind Kind) {
	if kind == None {
		return
	}
	if Kind(r.slot.Swap(int32(kind))) != None {
		r.coalesced.Add(1)
	}
}

// Take returns the pending kind and resets the slot to None.
func (r *Relay) Take() Kind {
	return Kind(r.slot.Swap(int32(None)))
}

// TakeCoalesced returns how many pending kinds were overwritten since the
// last call, and resets the count.
func (r *Relay) TakeCoalesced() int64 {
	return r.coalesced.Swap(0)
}
