// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package services

import (
	"context"
	"fmt"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/watchpost/internal/logging"
)

// Runner is satisfied by *supervisor.Controller.
type Runner interface {
	Run(ctx context.Context) error
}

// ControllerService runs the camera controller under the tree. The
// controller is never restarted by suture: when Run returns the daemon is
// done, so onExit is called (typically cancelling the tree's context) and
// the service reports ErrDoNotRestart.
type ControllerService struct {
	runner Runner
	onExit func(error)
}

// NewControllerService wraps runner. onExit receives Run's result and may
// be nil.
func NewControllerService(runner Runner, onExit func(error)) *ControllerService {
	return &ControllerService{runner: runner, onExit: onExit}
}

// Serve implements suture.Service.
func (c *ControllerService) Serve(ctx context.Context) error {
	err := c.runner.Run(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("Camera controller failed")
		err = fmt.Errorf("camera controller: %w", err)
	}
	if c.onExit != nil {
		c.onExit(err)
	}
	return suture.ErrDoNotRestart
}

func (c *ControllerService) String() string {
	return "camera-controller"
}
