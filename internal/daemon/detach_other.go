// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

//go:build !unix

package daemon

import "errors"

// ErrDetachUnsupported is returned by Detach on platforms without sessions.
var ErrDetachUnsupported = errors.New("daemon mode is not supported on this platform")

// Detach is unsupported here; run in the foreground under a service manager.
func Detach() (int, error) {
	return 0, ErrDetachUnsupported
}
