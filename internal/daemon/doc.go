// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

// Package daemon holds the process-level pieces of the daemon that follow the
// configuration through reloads.
//
// Each type is a supervisor.Collaborator: the controller starts them in
// order after every successful configuration load and stops them in reverse
// order before teardown, passing restarting=true when a reload follows.
//
//   - Logging re-initializes the global logger from the logging section and
//     owns the optional log file.
//   - PIDFile writes the pid file on first start and removes it only on the
//     final shutdown, never between reload cycles.
//   - ConfigWatch raises a reload on the relay when the configuration file
//     changes and daemon.reload_on_change is set.
//
// Detach re-executes the binary in a new session so the daemon outlives its
// terminal (unix only).
package daemon
