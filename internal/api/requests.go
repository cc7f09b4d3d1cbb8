// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package api

import (
	"net/http"
	"strconv"
)

// EventsRequest holds the validated query parameters of GET /events.
//
// Fields:
//   - Limit: maximum entries (0 means the journal maximum)
//   - CameraID: one camera, or -1 for every camera
//   - Kind: one event kind, empty for every kind
type EventsRequest struct {
	Limit    int    `validate:"min=0,max=10000"`
	CameraID int    `validate:"min=-1"`
	Kind     string `validate:"omitempty,oneof=startup launched launch_failed watchdog_soft_stop watchdog_force_cancel subthread_reaped killed cleaned camera_added camera_removed camera_remove_rejected signal ids_renumbered restart shutdown"`
}

// getIntParam reads an integer query parameter. ok is false when the value
// is present but not an integer.
func getIntParam(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def, false
	}
	return v, true
}
