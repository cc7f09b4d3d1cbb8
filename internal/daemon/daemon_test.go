// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package daemon

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/watchpost/internal/config"
	"github.com/tomtom215/watchpost/internal/logging"
	"github.com/tomtom215/watchpost/internal/signals"
)

func TestPIDFile_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchpost.pid")
	cfg := config.Default()
	cfg.Daemon.PIDFile = path

	var p PIDFile
	ctx := context.Background()
	if err := p.Start(ctx, cfg); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("pid file not written: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != strconv.Itoa(os.Getpid()) {
		t.Errorf("pid file = %q, want %d", got, os.Getpid())
	}

	if err := p.Stop(ctx, true); err != nil {
		t.Fatalf("Stop(restarting) error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal("pid file removed on restart")
	}
	if err := p.Start(ctx, cfg); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}

	if err := p.Stop(ctx, false); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("pid file should be removed on final shutdown, stat err = %v", err)
	}
}

func TestPIDFile_MovesOnPathChange(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.pid")
	second := filepath.Join(dir, "b.pid")

	cfg := config.Default()
	cfg.Daemon.PIDFile = first
	var p PIDFile
	if err := p.Start(context.Background(), cfg); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	cfg.Daemon.PIDFile = second
	if err := p.Start(context.Background(), cfg); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := os.Stat(first); !os.IsNotExist(err) {
		t.Error("old pid file should be removed")
	}
	if _, err := os.Stat(second); err != nil {
		t.Errorf("new pid file missing: %v", err)
	}
	_ = p.Stop(context.Background(), false)
}

func TestPIDFile_RejectsLiveProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchpost.pid")
	// The parent of the test binary is alive for the whole test.
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getppid())), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Daemon.PIDFile = path
	var p PIDFile
	err := p.Start(context.Background(), cfg)
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("Start() error = %v, want ErrAlreadyRunning", err)
	}
}

func TestPIDFile_Disabled(t *testing.T) {
	var p PIDFile
	if err := p.Start(context.Background(), config.Default()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := p.Stop(context.Background(), false); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}

func TestLogging_FileAndSetupMode(t *testing.T) {
	defer logging.Init(logging.DefaultConfig())

	path := filepath.Join(t.TempDir(), "watchpost.log")
	cfg := config.Default()
	cfg.Logging.File = path
	cfg.Logging.Level = "info"

	l := &Logging{}
	if err := l.Start(context.Background(), cfg); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	logging.Info().Msg("to the file")
	logging.Debug().Msg("filtered out")

	if err := l.Stop(context.Background(), true); err != nil {
		t.Fatalf("Stop(restarting) error = %v", err)
	}
	logging.Info().Msg("still to the file")
	if err := l.Stop(context.Background(), false); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "to the file") || !strings.Contains(out, "still to the file") {
		t.Errorf("log file missing lines: %s", out)
	}
	if strings.Contains(out, "filtered out") {
		t.Error("debug line written at info level")
	}

	var buf bytes.Buffer
	setup := config.Default()
	setup.Daemon.SetupMode = true
	l = &Logging{Stderr: &buf}
	if err := l.Start(context.Background(), setup); err != nil {
		t.Fatalf("Start(setup) error = %v", err)
	}
	logging.Debug().Msg("setup mode debug")
	if !strings.Contains(buf.String(), "setup mode debug") {
		t.Errorf("setup mode should log debug to the console, got %q", buf.String())
	}
}

func TestLogging_BadFile(t *testing.T) {
	defer logging.Init(logging.DefaultConfig())

	cfg := config.Default()
	cfg.Logging.File = filepath.Join(t.TempDir(), "missing", "dir", "watchpost.log")
	l := &Logging{}
	if err := l.Start(context.Background(), cfg); err == nil {
		t.Fatal("Start() with an unwritable log file should fail")
	}
}

type raiseRecorder struct {
	mu    sync.Mutex
	kinds []signals.Kind
}

func (r *raiseRecorder) Raise(kind signals.Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, kind)
}

func (r *raiseRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.kinds)
}

func TestConfigWatch_RaisesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchpost.yaml")
	if err := os.WriteFile(path, []byte("daemon:\n  pause: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Path = path
	cfg.Daemon.ReloadOnChange = true

	rec := &raiseRecorder{}
	w := NewConfigWatch(rec)
	if err := w.Start(context.Background(), cfg); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() { _ = w.Stop(context.Background(), false) }()

	deadline := time.Now().Add(5 * time.Second)
	for rec.count() == 0 && time.Now().Before(deadline) {
		if err := os.WriteFile(path, []byte("daemon:\n  pause: true\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(100 * time.Millisecond)
	}
	if rec.count() == 0 {
		t.Fatal("no reload raised after the file changed")
	}
	if rec.kinds[0] != signals.Reload {
		t.Errorf("raised %v, want reload", rec.kinds[0])
	}
}

func TestConfigWatch_Disabled(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		reload bool
	}{
		{"flag off", "/etc/watchpost.yaml", false},
		{"no file", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Path = tt.path
			cfg.Daemon.ReloadOnChange = tt.reload

			w := NewConfigWatch(&raiseRecorder{})
			if err := w.Start(context.Background(), cfg); err != nil {
				t.Fatalf("Start() error = %v", err)
			}
			if w.watcher != nil {
				t.Error("no watcher expected")
			}
			if err := w.Stop(context.Background(), false); err != nil {
				t.Errorf("Stop() error = %v", err)
			}
		})
	}
}

func TestDetached(t *testing.T) {
	t.Setenv(detachedEnv, "")
	if Detached() {
		t.Error("Detached() = true without the marker")
	}
	t.Setenv(detachedEnv, "1")
	if !Detached() {
		t.Error("Detached() = false with the marker")
	}
}
