// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*WebSocketHubService)(nil)

type mockContextHub struct {
	runErr error
}

func (m *mockContextHub) RunWithContext(ctx context.Context) error {
	if m.runErr != nil {
		return m.runErr
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestWebSocketHubService_Serve(t *testing.T) {
	t.Run("returns on cancellation", func(t *testing.T) {
		svc := NewWebSocketHubService(&mockContextHub{})
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Serve() error = %v, want DeadlineExceeded", err)
		}
	})

	t.Run("propagates hub error", func(t *testing.T) {
		hubErr := errors.New("hub crashed")
		svc := NewWebSocketHubService(&mockContextHub{runErr: hubErr})

		if err := svc.Serve(context.Background()); !errors.Is(err, hubErr) {
			t.Errorf("Serve() error = %v, want %v", err, hubErr)
		}
	})

	if got := NewWebSocketHubService(&mockContextHub{}).String(); got != "websocket-hub" {
		t.Errorf("String() = %q", got)
	}
}
