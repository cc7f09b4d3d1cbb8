// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package events

import (
	"context"
	"errors"
	"sync"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/watchpost/internal/logging"
)

// Sink consumes lifecycle events on the dispatcher goroutine.
type Sink interface {
	Name() string
	Handle(ctx context.Context, e Event) error
}

// Dispatcher is a suture service that fans lifecycle events out to sinks.
type Dispatcher struct {
	bus *Bus

	ready     chan struct{}
	readyOnce sync.Once

	mu    sync.RWMutex
	sinks []Sink
}

// NewDispatcher creates a dispatcher reading from bus.
func NewDispatcher(bus *Bus, sinks ...Sink) *Dispatcher {
	return &Dispatcher{bus: bus, sinks: sinks, ready: make(chan struct{})}
}

// Ready is closed once the dispatcher has subscribed to the bus. Events
// emitted before that are not delivered.
func (d *Dispatcher) Ready() <-chan struct{} {
	return d.ready
}

// AddSink registers another sink. Safe while serving.
func (d *Dispatcher) AddSink(s Sink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks = append(d.sinks, s)
}

// Serve implements suture.Service.
func (d *Dispatcher) Serve(ctx context.Context) error {
	msgs, err := d.bus.Subscribe(ctx)
	if errors.Is(err, ErrBusClosed) {
		return suture.ErrDoNotRestart
	}
	if err != nil {
		return err
	}
	d.readyOnce.Do(func() { close(d.ready) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return suture.ErrDoNotRestart
			}
			e, err := Unmarshal(msg.Payload)
			if err != nil {
				logging.Warn().Err(err).Str("uuid", msg.UUID).Msg("Dropping undecodable lifecycle event")
				msg.Ack()
				continue
			}
			d.dispatch(ctx, e)
			msg.Ack()
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, e Event) {
	d.mu.RLock()
	sinks := d.sinks
	d.mu.RUnlock()

	for _, s := range sinks {
		if err := s.Handle(ctx, e); err != nil {
			logging.Warn().Err(err).Str("sink", s.Name()).Str("kind", string(e.Kind)).Msg("Lifecycle event sink failed")
		}
	}
}

// String implements fmt.Stringer for suture logging.
func (d *Dispatcher) String() string {
	return "event-dispatcher"
}
