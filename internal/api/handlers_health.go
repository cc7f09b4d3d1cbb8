// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/watchpost/internal/supervisor"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status     string  `json:"status"`
	Cameras    int     `json:"cameras"`
	Running    int     `json:"running"`
	WSClients  int     `json:"ws_clients"`
	UptimeSecs float64 `json:"uptime_seconds"`
}

// Health reports overall status. It is "starting" before the controller has
// started and "degraded" when cameras are configured but nothing runs.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := HealthStatus{
		Status:     "healthy",
		Running:    h.controller.Running(),
		UptimeSecs: time.Since(h.startTime).Seconds(),
	}
	if h.hub != nil {
		health.WSClients = h.hub.GetClientCount()
	}

	statuses, err := h.controller.Statuses()
	switch {
	case errors.Is(err, supervisor.ErrNotStarted):
		health.Status = "starting"
	case err != nil:
		health.Status = "degraded"
	default:
		health.Cameras = len(statuses)
		if health.Cameras > 0 && health.Running == 0 {
			health.Status = "degraded"
		}
	}

	NewResponseWriter(w, r).Success(health)
}

// HealthLive answers as long as the HTTP server runs.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady returns 503 until the controller has started.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if _, err := h.controller.Statuses(); err != nil {
		NewResponseWriter(w, r).ServiceUnavailable("Supervisor not ready")
		return
	}
	NewResponseWriter(w, r).Success(map[string]bool{"ready": true})
}
