// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package config

import (
	"fmt"

	"github.com/tomtom215/watchpost/internal/validation"
)

// Validate checks the struct tag rules and the cross-field rules.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}
	if err := c.validateControl(); err != nil {
		return err
	}
	return c.validateCameras()
}

func (c *Config) validateControl() error {
	if c.Control.Enabled && c.Control.Addr == "" {
		return fmt.Errorf("control.addr is required when control.enabled=true")
	}
	return nil
}

// validateCameras only checks what the supervisor cannot repair. Duplicate or
// out-of-range ids are tolerated here and renumbered at startup.
func (c *Config) validateCameras() error {
	if len(c.Cameras) == 0 {
		return fmt.Errorf("at least one camera is required")
	}
	for i := range c.Cameras {
		cam := &c.Cameras[i]
		if cam.NetcamHighURL != "" && cam.NetcamURL == "" {
			return fmt.Errorf("cameras[%d]: netcam_high_url requires netcam_url", i)
		}
	}
	return nil
}
