// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package api

import "errors"

var (
	// ErrInvalidIndex is returned for a camera index that is not a non-negative integer.
	ErrInvalidIndex = errors.New("camera index must be a non-negative integer")

	// ErrUnknownAction is returned for a signal action the relay does not know.
	ErrUnknownAction = errors.New("unknown action")
)
