// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package camera

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func waitDone(t *testing.T, th *GoThread) {
	t.Helper()
	select {
	case <-th.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("thread did not exit")
	}
}

func TestGoThread_CancelStopsCooperativeBody(t *testing.T) {
	t.Parallel()

	th := Go(context.Background(), func(ctx context.Context, _ <-chan struct{}) error {
		<-ctx.Done()
		return ctx.Err()
	})

	if !th.Alive() {
		t.Fatal("expected thread to be alive")
	}
	th.Cancel()
	waitDone(t, th)

	if th.Alive() {
		t.Error("expected thread to be dead after cancel")
	}
	if !errors.Is(th.Err(), context.Canceled) {
		t.Errorf("Err() = %v, want context.Canceled", th.Err())
	}
}

func TestGoThread_InterruptWakesBody(t *testing.T) {
	t.Parallel()

	woke := make(chan struct{})
	th := Go(context.Background(), func(_ context.Context, wake <-chan struct{}) error {
		<-wake
		close(woke)
		return nil
	})

	// Repeated interrupts never block.
	for i := 0; i < 5; i++ {
		th.Interrupt()
	}

	select {
	case <-woke:
	case <-time.After(2 * time.Second):
		t.Fatal("interrupt did not wake the thread")
	}
	waitDone(t, th)
	th.Interrupt()
	th.Cancel()
}

func TestGoThread_RecoversPanic(t *testing.T) {
	t.Parallel()

	th := Go(context.Background(), func(context.Context, <-chan struct{}) error {
		panic("decoder exploded")
	})
	waitDone(t, th)

	if th.Err() == nil || !strings.Contains(th.Err().Error(), "decoder exploded") {
		t.Errorf("Err() = %v, want recovered panic", th.Err())
	}
}

func TestRunState(t *testing.T) {
	tests := []struct {
		state      RunState
		name       string
		active     bool
		launchable bool
	}{
		{Idle, "idle", false, true},
		{Running, "running", true, false},
		{StopRequested, "stop_requested", true, false},
		{Cancelling, "cancelling", true, false},
		{Killed, "killed", true, false},
		{Cleaned, "cleaned", false, true},
		{RunState(99), "unknown", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.state.String() != tt.name {
				t.Errorf("String() = %q, want %q", tt.state.String(), tt.name)
			}
			if tt.state.Active() != tt.active {
				t.Errorf("Active() = %v, want %v", tt.state.Active(), tt.active)
			}
			if tt.state.Launchable() != tt.launchable {
				t.Errorf("Launchable() = %v, want %v", tt.state.Launchable(), tt.launchable)
			}
		})
	}
}
