// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

//go:build unix

package signals

import (
	"os"
	"syscall"
)

var watched = []os.Signal{
	syscall.SIGALRM,
	syscall.SIGUSR1,
	syscall.SIGHUP,
	syscall.SIGINT,
	syscall.SIGQUIT,
	syscall.SIGTERM,
}

func kindOf(sig os.Signal) Kind {
	switch sig {
	case syscall.SIGALRM:
		return Alarm
	case syscall.SIGUSR1:
		return User1
	case syscall.SIGHUP:
		return Reload
	case syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM:
		return Terminate
	}
	return None
}
