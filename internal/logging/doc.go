// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

// Package logging provides centralized zerolog-based structured logging for Watchpost.
//
// Every package in the daemon logs through the global logger configured here,
// so the supervisor, the capture workers and the web control surface share one
// output stream and one level.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Int("camera_id", 3).Msg("Worker launched")
//	logging.Error().Err(err).Msg("Launch failed")
//
// Per-camera loggers carry the camera id and name on every line:
//
//	log := logging.Camera(w.ID(), w.Name())
//	log.Warn().Msg("Netcam fetch failed")
//
// # Adapters
//
// Libraries that want their own logger interface write through zerolog too:
//
//   - SlogHandler / NewSlogLogger: for sutureslog (supervisor tree events)
//   - WatermillAdapter: for the watermill event bus
//
// # Configuration
//
// The daemon configures logging from the `logging` section of the config file
// (level, format, caller, file). The log file, when set, is opened by the
// daemon logging collaborator and passed in as Config.Output.
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
