// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/tomtom215/watchpost/internal/config"
	"github.com/tomtom215/watchpost/internal/logging"
)

// options are the command line overrides. They are applied on top of every
// configuration load, so they survive reloads.
type options struct {
	configPath string
	daemon     bool
	foreground bool
	setup      bool
	pidFile    string
	logFile    string
	logLevel   string
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("watchpost", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&o.configPath, "c", "", "configuration file (default: $WATCHPOST_CONFIG or the search path)")
	fs.BoolVar(&o.daemon, "d", false, "run as a daemon")
	fs.BoolVar(&o.foreground, "n", false, "run in the foreground, overriding daemon mode")
	fs.BoolVar(&o.setup, "s", false, "setup mode: console debug logging, never daemonize")
	fs.StringVar(&o.pidFile, "p", "", "pid file")
	fs.StringVar(&o.logFile, "l", "", "log file")
	fs.StringVar(&o.logLevel, "k", "", "log level (trace, debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.logLevel != "" && !logging.ValidLevel(o.logLevel) {
		return options{}, fmt.Errorf("invalid log level %q", o.logLevel)
	}
	return o, nil
}

// apply overlays the flags on cfg.
func (o options) apply(cfg *config.Config) {
	if o.daemon {
		cfg.Daemon.Daemon = true
	}
	if o.setup {
		cfg.Daemon.SetupMode = true
	}
	if o.foreground || cfg.Daemon.SetupMode {
		cfg.Daemon.Daemon = false
	}
	if o.pidFile != "" {
		cfg.Daemon.PIDFile = o.pidFile
	}
	if o.logFile != "" {
		cfg.Logging.File = o.logFile
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
}

// loader returns the configuration loader handed to the controller.
func (o options) loader() func() (*config.Config, error) {
	return func() (*config.Config, error) {
		cfg, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		o.apply(cfg)
		return cfg, nil
	}
}
