// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

// Package events carries camera lifecycle events from the supervisor to
// whoever wants them: the journal, the websocket status stream and,
// in binaries built with -tags=nats, a NATS subject.
//
// The supervisor only calls Emitter.Emit. Emit never blocks the tick loop
// for longer than a channel send; fan-out happens on the Dispatcher's
// goroutine.
package events

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Kind names a lifecycle transition.
type Kind string

const (
	KindStartup         Kind = "startup"
	KindLaunched        Kind = "launched"
	KindLaunchFailed    Kind = "launch_failed"
	KindSoftStop        Kind = "watchdog_soft_stop"
	KindForceCancel     Kind = "watchdog_force_cancel"
	KindSubthreadReaped Kind = "subthread_reaped"
	KindKilled          Kind = "killed"
	KindCleaned         Kind = "cleaned"
	KindAdded           Kind = "camera_added"
	KindRemoved         Kind = "camera_removed"
	KindRemoveRejected  Kind = "camera_remove_rejected"
	KindSignal          Kind = "signal"
	KindIDsRenumbered   Kind = "ids_renumbered"
	KindRestart         Kind = "restart"
	KindShutdown        Kind = "shutdown"
)

// Event is one lifecycle record.
type Event struct {
	ID       string    `json:"id"`
	Time     time.Time `json:"time"`
	Kind     Kind      `json:"kind"`
	CameraID int       `json:"camera_id"`
	Camera   string    `json:"camera,omitempty"`
	Position int       `json:"position"`
	State    string    `json:"state,omitempty"`
	Detail   string    `json:"detail,omitempty"`
}

// New returns an event with a fresh id and the current time. Process-wide
// events use position -1.
func New(kind Kind) Event {
	return Event{
		ID:       uuid.NewString(),
		Time:     time.Now().UTC(),
		Kind:     kind,
		Position: -1,
		CameraID: -1,
	}
}

// Marshal encodes the event as JSON.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Unmarshal decodes an event encoded by Marshal.
func Unmarshal(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}

// Emitter accepts lifecycle events.
type Emitter interface {
	Emit(Event)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(Event)

// Emit calls f(e).
func (f EmitterFunc) Emit(e Event) { f(e) }

// Nop discards every event.
var Nop Emitter = EmitterFunc(func(Event) {})
