// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

// Package journal stores recent camera lifecycle events in BadgerDB so the
// control surface can show what happened while nobody was watching the
// websocket stream.
//
// Keys are "event:<unix nanos, zero padded>:<event id>", so byte order is
// time order and listings iterate in reverse. Every entry carries a badger
// TTL equal to journal.retention; expired entries disappear on their own and
// Serve reclaims value log space periodically.
//
// An empty journal.path keeps the journal in memory for the life of the
// process.
package journal
