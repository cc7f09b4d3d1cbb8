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

var _ suture.Service = (*ControllerService)(nil)

type runnerFunc func(ctx context.Context) error

func (f runnerFunc) Run(ctx context.Context) error { return f(ctx) }

func TestControllerService_Serve(t *testing.T) {
	tests := []struct {
		name    string
		runErr  error
		wantErr bool
	}{
		{name: "normal exit", runErr: nil},
		{name: "failed startup", runErr: errors.New("load configuration"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var exitErr error
			called := false
			svc := NewControllerService(runnerFunc(func(context.Context) error { return tt.runErr }), func(err error) {
				called = true
				exitErr = err
			})

			if err := svc.Serve(context.Background()); !errors.Is(err, suture.ErrDoNotRestart) {
				t.Errorf("Serve() error = %v, want ErrDoNotRestart", err)
			}
			if !called {
				t.Fatal("onExit not called")
			}
			if (exitErr != nil) != tt.wantErr {
				t.Errorf("onExit error = %v, wantErr %v", exitErr, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(exitErr, tt.runErr) {
				t.Errorf("onExit error = %v, want wrapped %v", exitErr, tt.runErr)
			}
		})
	}
}

func TestControllerService_NotRestartedByTree(t *testing.T) {
	runs := make(chan struct{}, 4)
	svc := NewControllerService(runnerFunc(func(context.Context) error {
		runs <- struct{}{}
		return nil
	}), nil)

	sup := suture.New("test", suture.Spec{FailureBackoff: time.Millisecond, Timeout: time.Second})
	sup.Add(svc)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	<-sup.ServeBackground(ctx)

	if got := len(runs); got != 1 {
		t.Errorf("runs = %d, want 1", got)
	}
}
