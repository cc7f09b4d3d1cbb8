// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Handle(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	if s.fail {
		return errors.New("sink unavailable")
	}
	return nil
}

func (s *recordingSink) snapshot() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func containsEvent(events []Event, id string) bool {
	for _, e := range events {
		if e.ID == id {
			return true
		}
	}
	return false
}

func TestEvent_RoundTrip(t *testing.T) {
	e := New(KindSoftStop)
	e.CameraID = 4
	e.Position = 1
	e.Detail = "watchdog timeout"

	data, err := e.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.ID != e.ID || got.Kind != KindSoftStop || got.CameraID != 4 || got.Detail != e.Detail {
		t.Errorf("round trip = %+v, want %+v", got, e)
	}
}

func TestNew_ProcessWideDefaults(t *testing.T) {
	e := New(KindShutdown)
	if e.ID == "" {
		t.Error("expected an id")
	}
	if e.Position != -1 || e.CameraID != -1 {
		t.Errorf("process-wide event position/camera = %d/%d, want -1/-1", e.Position, e.CameraID)
	}
}

func TestDispatcher_FansOutToSinks(t *testing.T) {
	bus := NewBus(16)
	defer bus.Close()

	first := &recordingSink{}
	second := &recordingSink{fail: true}
	d := NewDispatcher(bus, first)
	d.AddSink(second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- d.Serve(ctx) }()

	select {
	case <-d.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher never subscribed")
	}

	launched := New(KindLaunched)
	launched.CameraID = 2
	bus.Emit(launched)

	// Both sinks see every event, including the one after a failing sink.
	for _, sink := range []*recordingSink{first, second} {
		deadline := time.After(2 * time.Second)
		for !containsEvent(sink.snapshot(), launched.ID) {
			select {
			case <-deadline:
				t.Fatalf("sink did not receive the launched event")
			case <-time.After(5 * time.Millisecond):
			}
		}
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not stop")
	}
}

func TestDispatcher_ClosedBusDoesNotRestart(t *testing.T) {
	bus := NewBus(1)
	if err := bus.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	err := NewDispatcher(bus).Serve(context.Background())
	if !errors.Is(err, suture.ErrDoNotRestart) {
		t.Errorf("Serve() on closed bus = %v, want ErrDoNotRestart", err)
	}

	// Emitting on a closed bus is a no-op.
	bus.Emit(New(KindShutdown))
}

func TestEmitterFunc(t *testing.T) {
	var got Kind
	var em Emitter = EmitterFunc(func(e Event) { got = e.Kind })
	em.Emit(New(KindRestart))
	if got != KindRestart {
		t.Errorf("EmitterFunc received %q, want restart", got)
	}
	Nop.Emit(New(KindRestart))
}
