// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

// Package api implements the web control surface of the daemon.
//
// Routes are served by chi under /api/v1:
//
//	GET    /api/v1/health                  liveness, camera and running counts
//	GET    /api/v1/health/live             always 200 while the process serves HTTP
//	GET    /api/v1/health/ready            503 until the controller has started
//	GET    /api/v1/cameras                 per-camera status in registry order
//	POST   /api/v1/cameras                 queue a camera add (202)
//	DELETE /api/v1/cameras/{index}         queue removal of the camera at a position (202)
//	GET    /api/v1/cameras/{index}/snapshot latest snapshot image of a camera
//	POST   /api/v1/signals/{action}        raise alarm/snapshot, user1/eventend, reload/restart, terminate/quit
//	GET    /api/v1/events                  recent lifecycle events from the journal
//	GET    /api/v1/ws                      websocket stream of status and lifecycle events
//	GET    /metrics                        Prometheus metrics
//
// Add and remove requests are applied by the supervisor on its next tick, so
// both answer 202 Accepted. Every JSON response uses the APIResponse envelope.
//
// Middleware: request id, real IP, panic recovery, CORS (go-chi/cors),
// per-IP rate limiting (go-chi/httprate) and request metrics.
package api
