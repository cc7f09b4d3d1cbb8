// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package daemon

import "os"

const detachedEnv = "WATCHPOST_DAEMONIZED"

// Detached reports whether this process was started by Detach.
func Detached() bool {
	return os.Getenv(detachedEnv) == "1"
}
