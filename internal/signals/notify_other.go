// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

//go:build !unix

package signals

import "os"

var watched = []os.Signal{os.Interrupt}

func kindOf(sig os.Signal) Kind {
	if sig == os.Interrupt {
		return Terminate
	}
	return None
}
