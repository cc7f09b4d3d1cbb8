// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/watchpost/internal/camera"
	"github.com/tomtom215/watchpost/internal/capture"
	"github.com/tomtom215/watchpost/internal/events"
	"github.com/tomtom215/watchpost/internal/journal"
	"github.com/tomtom215/watchpost/internal/logging"
	"github.com/tomtom215/watchpost/internal/signals"
	ws "github.com/tomtom215/watchpost/internal/websocket"
)

// Controller is the part of the supervisor the control surface drives.
type Controller interface {
	Statuses() ([]camera.Status, error)
	Running() int
	RequestAdd() error
	RequestRemove(index int) error
	Raise(kind signals.Kind)
}

// EventStore lists journaled lifecycle events.
type EventStore interface {
	Recent(ctx context.Context, f journal.Filter) ([]events.Event, error)
}

// SnapshotStore returns the latest snapshot of a camera.
type SnapshotStore interface {
	Snapshot(cameraID int) (capture.Frame, bool)
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, websocket upgrade
//   - handlers_health.go: health probes
//   - handlers_cameras.go: camera listing, add, remove, snapshot
//   - handlers_control.go: signal actions and the event journal
type Handler struct {
	controller Controller
	journal    EventStore
	snapshots  SnapshotStore
	hub        *ws.Hub
	mw         *Middleware
	startTime  time.Time
}

// Deps are the collaborators of a Handler. Only Controller is required.
type Deps struct {
	Controller Controller
	Journal    EventStore
	Snapshots  SnapshotStore
	Hub        *ws.Hub
}

// NewHandler creates the API handler.
func NewHandler(deps Deps, mw *Middleware) *Handler {
	if mw == nil {
		mw = NewMiddleware(nil)
	}
	return &Handler{
		controller: deps.Controller,
		journal:    deps.Journal,
		snapshots:  deps.Snapshots,
		hub:        deps.Hub,
		mw:         mw,
		startTime:  time.Now(),
	}
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin accepts connections without an Origin header (local
// tools) and browser connections from a configured CORS origin.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if h.mw.allowsOrigin(origin) {
		return true
	}
	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// WebSocket upgrades the connection and registers it with the hub.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		NewResponseWriter(w, r).ServiceUnavailable("WebSocket service unavailable")
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register <- client
	client.Start()
}

// sanitizeLogValue strips control characters and truncates long values.
func sanitizeLogValue(s string) string {
	const maxLen = 200
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}
	return s
}
