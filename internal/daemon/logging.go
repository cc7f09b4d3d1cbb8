// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package daemon

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/tomtom215/watchpost/internal/config"
	"github.com/tomtom215/watchpost/internal/logging"
)

// Logging applies the logging section on every startup.
type Logging struct {
	// Stderr receives logs when no file is configured. Nil means os.Stderr.
	Stderr io.Writer

	mu   sync.Mutex
	file *os.File
	path string
}

// Name implements supervisor.Collaborator.
func (l *Logging) Name() string { return "logging" }

// Start opens the configured log file (if it changed) and re-initializes the
// global logger. Setup mode forces console output at debug level.
func (l *Logging) Start(_ context.Context, cfg *config.Config) error {
	lc := logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    l.Stderr,
	}
	if cfg.Daemon.SetupMode {
		lc.Level = "debug"
		lc.Format = "console"
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if cfg.Logging.File != l.path {
		var next *os.File
		if cfg.Logging.File != "" {
			f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			next = f
		}
		prev := l.file
		l.file, l.path = next, cfg.Logging.File
		defer closeQuietly(prev)
	}
	if l.file != nil {
		lc.Output = l.file
	}

	logging.Init(lc)
	logging.Debug().Str("level", lc.Level).Str("format", lc.Format).Str("file", l.path).Msg("Logging configured")
	return nil
}

// Stop closes the log file on the final shutdown. During a reload the file
// stays open so the restart itself is logged.
func (l *Logging) Stop(_ context.Context, restarting bool) error {
	if restarting {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	logging.Init(logging.Config{Output: l.Stderr, Timestamp: true})
	err := l.file.Close()
	l.file, l.path = nil, ""
	if err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

func closeQuietly(f *os.File) {
	if f != nil {
		_ = f.Close()
	}
}
