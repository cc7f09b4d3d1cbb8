// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package daemon

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/tomtom215/watchpost/internal/config"
	"github.com/tomtom215/watchpost/internal/logging"
)

// ErrAlreadyRunning is returned when the pid file names a live process.
var ErrAlreadyRunning = errors.New("another instance is running")

// PIDFile writes daemon.pid_file. The file survives reloads.
type PIDFile struct {
	mu      sync.Mutex
	written string
}

// Name implements supervisor.Collaborator.
func (p *PIDFile) Name() string { return "pidfile" }

// Start writes the pid file unless this process already wrote it. A changed
// path on reload moves the file.
func (p *PIDFile) Start(_ context.Context, cfg *config.Config) error {
	path := cfg.Daemon.PIDFile

	p.mu.Lock()
	defer p.mu.Unlock()

	if path == p.written {
		return nil
	}
	if p.written != "" {
		removePID(p.written)
		p.written = ""
	}
	if path == "" {
		return nil
	}

	if pid, ok := readPID(path); ok && pid != os.Getpid() && processAlive(pid) {
		return fmt.Errorf("%w: pid %d in %s", ErrAlreadyRunning, pid, path)
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	p.written = path
	logging.Info().Str("path", path).Int("pid", os.Getpid()).Msg("PID file written")
	return nil
}

// Stop removes the pid file on the final shutdown only.
func (p *PIDFile) Stop(_ context.Context, restarting bool) error {
	if restarting {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.written != "" {
		removePID(p.written)
		p.written = ""
	}
	return nil
}

func readPID(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

func removePID(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Warn().Err(err).Str("path", path).Msg("Failed to remove PID file")
		return
	}
	logging.Info().Str("path", path).Msg("PID file removed")
}
