// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

// Package main is the entry point of the Watchpost daemon.
//
// Watchpost supervises one capture worker per configured camera. A
// supervision loop ticks once per daemon.tick_interval, launches idle
// cameras, escalates unresponsive ones (soft stop, then forced
// cancellation) and reaps what exited. Process signals and the web control
// surface feed actions into the same loop.
//
// # Startup
//
//  1. Flags are parsed and the configuration is loaded (koanf: defaults,
//     YAML file, WATCHPOST_* environment).
//  2. With daemon mode on, the binary re-executes itself in a new session
//     and the parent exits.
//  3. The event bus, journal, websocket hub, optional NATS forwarder and
//     capture runtime are built.
//  4. A suture tree runs the camera controller (core layer), the event
//     dispatcher, hub and journal GC (messaging layer) and the HTTP control
//     surface (api layer).
//  5. When the controller finishes, the tree is cancelled and the process
//     exits.
//
// # Flags
//
//	-c path   configuration file
//	-d        daemonize
//	-n        stay in the foreground even if daemon.daemon is set
//	-s        setup mode: console debug logging, never daemonize
//	-p path   pid file
//	-l path   log file
//	-k level  log level
//
// Flags override the configuration file on every load, including reloads.
//
// # Signals
//
//	SIGHUP            reload (full restart of every camera)
//	SIGINT, SIGTERM   stop every camera and exit
//	SIGQUIT           same as SIGTERM
//	SIGUSR1           end the current event on every camera
//	SIGALRM           snapshot on cameras with snapshot_interval set
//
// # Build Tags
//
//	go build -tags nats ./cmd/watchpost   # forward lifecycle events to NATS
package main
