// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

// Package validation provides struct validation using go-playground/validator v10.
//
// Configuration sections and control API request bodies declare their rules
// as struct tags; this package owns the one validator instance and turns
// validator errors into messages an operator can act on.
//
//	type CameraConfig struct {
//	    FrameRate       int    `validate:"gte=1,lte=100"`
//	    WatchdogTimeout int    `validate:"gte=1"`
//	    NetcamURL       string `validate:"omitempty,url"`
//	}
//
//	if verr := validation.ValidateStruct(&cfg); verr != nil {
//	    return fmt.Errorf("invalid configuration: %w", verr)
//	}
//
// Field names in messages use the full namespace, so an error on the second
// camera reads "Cameras[1].WatchdogTimeout must be ...".
//
// Custom tags:
//   - loglevel: one of the levels accepted by the logging package
package validation
