// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewTree(t *testing.T) {
	t.Run("applies default values for zero config", func(t *testing.T) {
		tree := NewTree(quietLogger(), TreeConfig{})

		if tree.Root() == nil {
			t.Fatal("root supervisor should not be nil")
		}
		if tree.config != DefaultTreeConfig() {
			t.Errorf("config = %+v, want %+v", tree.config, DefaultTreeConfig())
		}
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		tree := NewTree(quietLogger(), TreeConfig{FailureThreshold: 2, ShutdownTimeout: time.Second})

		if tree.config.FailureThreshold != 2 {
			t.Errorf("FailureThreshold = %f, want 2", tree.config.FailureThreshold)
		}
		if tree.config.ShutdownTimeout != time.Second {
			t.Errorf("ShutdownTimeout = %v, want 1s", tree.config.ShutdownTimeout)
		}
		if tree.config.FailureDecay != 30 {
			t.Errorf("FailureDecay = %f, want 30", tree.config.FailureDecay)
		}
	})
}

func TestTree_StartsEveryLayer(t *testing.T) {
	tree := NewTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})

	core := newMockService("core")
	messaging := newMockService("messaging")
	api := newMockService("api")
	tree.AddCoreService(core)
	tree.AddMessagingService(messaging)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	waitFor(t, "services to start", func() bool {
		return core.startCount.Load() > 0 && messaging.startCount.Load() > 0 && api.startCount.Load() > 0
	})
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not shut down in time")
	}
}

func TestTree_RestartsFailingService(t *testing.T) {
	tree := NewTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	failing := newMockService("failing")
	failing.maxFails = 2
	stable := newMockService("stable")
	tree.AddMessagingService(failing)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tree.ServeBackground(ctx)

	waitFor(t, "failing service to recover", func() bool { return failing.startCount.Load() >= 3 })
	if got := stable.startCount.Load(); got != 1 {
		t.Errorf("stable service starts = %d, want 1", got)
	}
}
