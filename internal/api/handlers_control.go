// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/watchpost/internal/events"
	"github.com/tomtom215/watchpost/internal/journal"
	"github.com/tomtom215/watchpost/internal/logging"
	"github.com/tomtom215/watchpost/internal/signals"
	"github.com/tomtom215/watchpost/internal/validation"
)

// Signal raises the action named by {action} on the relay. The supervisor
// handles it on its next tick.
func (h *Handler) Signal(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	name := chi.URLParam(r, "action")
	kind, ok := signals.ParseKind(name)
	if !ok {
		rw.BadRequest(ErrUnknownAction.Error() + ": " + sanitizeLogValue(name))
		return
	}

	h.controller.Raise(kind)
	logging.Info().Str("action", kind.String()).Msg("Action raised through the control API")
	rw.Accepted(map[string]string{"action": kind.String()})
}

// Events lists journaled lifecycle events, newest first.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.journal == nil {
		rw.ServiceUnavailable("Event journal disabled")
		return
	}

	limit, ok1 := getIntParam(r, "limit", 0)
	cameraID, ok2 := getIntParam(r, "camera_id", -1)
	if !ok1 || !ok2 {
		rw.BadRequest("limit and camera_id must be integers")
		return
	}
	req := EventsRequest{
		Limit:    limit,
		CameraID: cameraID,
		Kind:     r.URL.Query().Get("kind"),
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError("Invalid query parameters", verr.Errors())
		return
	}

	list, err := h.journal.Recent(r.Context(), journal.Filter{
		Limit:    req.Limit,
		CameraID: req.CameraID,
		Kind:     events.Kind(req.Kind),
	})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to read event journal")
		rw.InternalError("Failed to read event journal")
		return
	}
	rw.SuccessWithCount(list, len(list))
}
