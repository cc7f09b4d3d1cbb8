// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/watchpost/internal/logging"
	"github.com/tomtom215/watchpost/internal/supervisor"
)

// Cameras lists every camera in registry order.
func (h *Handler) Cameras(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	statuses, err := h.controller.Statuses()
	if err != nil {
		respondControllerError(rw, err)
		return
	}
	rw.SuccessWithCount(statuses, len(statuses))
}

// AddCamera queues a new camera built from the defaults section.
func (h *Handler) AddCamera(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if err := h.controller.RequestAdd(); err != nil {
		respondControllerError(rw, err)
		return
	}
	logging.Info().Msg("Camera add requested through the control API")
	rw.Accepted(map[string]string{"status": "pending"})
}

// RemoveCamera queues removal of the camera at {index}.
func (h *Handler) RemoveCamera(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	index, err := parseIndex(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if err := h.controller.RequestRemove(index); err != nil {
		respondControllerError(rw, err)
		return
	}
	logging.Info().Int("index", index).Msg("Camera removal requested through the control API")
	rw.Accepted(map[string]interface{}{"status": "pending", "index": index})
}

// Snapshot serves the latest snapshot image of the camera at {index}.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	index, err := parseIndex(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if h.snapshots == nil {
		rw.ServiceUnavailable("Snapshots unavailable")
		return
	}

	statuses, err := h.controller.Statuses()
	if err != nil {
		respondControllerError(rw, err)
		return
	}
	if index >= len(statuses) {
		rw.NotFound(supervisor.ErrIndexOutOfRange.Error())
		return
	}

	frame, ok := h.snapshots.Snapshot(statuses[index].ID)
	if !ok {
		rw.NotFound("No snapshot taken yet")
		return
	}

	w.Header().Set("Content-Type", frame.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(frame.Data)))
	w.Header().Set("Last-Modified", frame.Time.UTC().Format(http.TimeFormat))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(frame.Data)
}

func parseIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		return 0, ErrInvalidIndex
	}
	return index, nil
}

// respondControllerError maps supervisor errors to HTTP statuses.
func respondControllerError(rw *ResponseWriter, err error) {
	switch {
	case errors.Is(err, supervisor.ErrIndexOutOfRange):
		rw.NotFound(err.Error())
	case errors.Is(err, supervisor.ErrLastCamera), errors.Is(err, supervisor.ErrMutationPending):
		rw.Conflict(err.Error())
	case errors.Is(err, supervisor.ErrNotStarted), errors.Is(err, supervisor.ErrShuttingDown):
		rw.ServiceUnavailable(err.Error())
	default:
		logging.Error().Err(err).Msg("Control request failed")
		rw.InternalError("Control request failed")
	}
}
