// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package supervisor

import "errors"

var (
	// ErrIndexOutOfRange is returned for a remove request outside the registry.
	ErrIndexOutOfRange = errors.New("camera index out of range")

	// ErrLastCamera is returned when removing the only remaining camera.
	ErrLastCamera = errors.New("cannot remove the last camera")

	// ErrMutationPending is returned while another add or remove is pending.
	ErrMutationPending = errors.New("a camera add or remove is already pending")

	// ErrShuttingDown is returned for requests made after termination began.
	ErrShuttingDown = errors.New("supervisor is shutting down")

	// ErrNotStarted is returned by control requests before the first startup.
	ErrNotStarted = errors.New("supervisor not started")

	// errRemoveDeferred means the target camera is still running and has
	// been asked to stop; the request stays pending.
	errRemoveDeferred = errors.New("camera still running")
)
