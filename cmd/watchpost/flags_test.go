// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package main

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/tomtom215/watchpost/internal/config"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    options
		wantErr bool
	}{
		{"none", nil, options{}, false},
		{"all", []string{"-c", "/etc/wp.yaml", "-d", "-s", "-p", "/run/wp.pid", "-l", "/var/log/wp.log", "-k", "debug"},
			options{configPath: "/etc/wp.yaml", daemon: true, setup: true, pidFile: "/run/wp.pid", logFile: "/var/log/wp.log", logLevel: "debug"}, false},
		{"foreground", []string{"-n"}, options{foreground: true}, false},
		{"bad level", []string{"-k", "loud"}, options{}, true},
		{"unknown flag", []string{"-x"}, options{}, true},
		{"positional", []string{"extra"}, options{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFlags(tt.args, io.Discard)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseFlags() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseFlags_Help(t *testing.T) {
	_, err := parseFlags([]string{"-h"}, io.Discard)
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("parseFlags(-h) error = %v, want flag.ErrHelp", err)
	}
}

func TestOptionsApply(t *testing.T) {
	tests := []struct {
		name       string
		opts       options
		daemonCfg  bool
		wantDaemon bool
		wantSetup  bool
	}{
		{"config daemon", options{}, true, true, false},
		{"flag daemon", options{daemon: true}, false, true, false},
		{"foreground wins", options{daemon: true, foreground: true}, true, false, false},
		{"setup never daemonizes", options{setup: true}, true, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Daemon.Daemon = tt.daemonCfg
			tt.opts.apply(cfg)
			if cfg.Daemon.Daemon != tt.wantDaemon {
				t.Errorf("Daemon = %v, want %v", cfg.Daemon.Daemon, tt.wantDaemon)
			}
			if cfg.Daemon.SetupMode != tt.wantSetup {
				t.Errorf("SetupMode = %v, want %v", cfg.Daemon.SetupMode, tt.wantSetup)
			}
		})
	}

	cfg := config.Default()
	options{pidFile: "/run/wp.pid", logFile: "/tmp/wp.log", logLevel: "warn"}.apply(cfg)
	if cfg.Daemon.PIDFile != "/run/wp.pid" || cfg.Logging.File != "/tmp/wp.log" || cfg.Logging.Level != "warn" {
		t.Errorf("overrides not applied: %+v %+v", cfg.Daemon, cfg.Logging)
	}
}

func TestLoader_AppliesOverridesOnEveryLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchpost.yaml")
	yaml := "daemon:\n  pid_file: /from/file.pid\ncameras:\n  - name: porch\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	load := options{configPath: path, pidFile: "/from/flag.pid"}.loader()
	for i := 0; i < 2; i++ {
		cfg, err := load()
		if err != nil {
			t.Fatalf("load() error = %v", err)
		}
		if cfg.Daemon.PIDFile != "/from/flag.pid" {
			t.Errorf("load %d: PIDFile = %q, want the flag value", i, cfg.Daemon.PIDFile)
		}
		if len(cfg.Cameras) != 1 || cfg.Cameras[0].Name != "porch" {
			t.Errorf("load %d: cameras = %+v", i, cfg.Cameras)
		}
	}
}
