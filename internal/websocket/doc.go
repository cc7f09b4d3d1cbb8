// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

/*
Package websocket streams camera status and lifecycle events to browsers.

A Hub owns the connected clients. Each Client has a read pump (answers
application pings, detects disconnects) and a write pump (drains the client's
send buffer, sends protocol pings every pingPeriod).

Frames are JSON:

	{"type": "status", "data": [camera.Status, ...]}
	{"type": "event",  "data": events.Event}
	{"type": "pong",   "data": null}

Status frames are only broadcast when the statuses changed since the last
one; a newly connected client gets the latest status immediately. The Hub is
an events.Sink, so lifecycle events reach it through the event dispatcher.
*/
package websocket
