// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

// Package services adapts the daemon's long-running components to
// suture.Service so they can be hosted by supervisor.Tree.
//
// The event dispatcher implements suture.Service itself and is added to the
// tree directly.
package services
