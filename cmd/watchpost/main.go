// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/tomtom215/watchpost/internal/api"
	"github.com/tomtom215/watchpost/internal/capture"
	"github.com/tomtom215/watchpost/internal/config"
	"github.com/tomtom215/watchpost/internal/daemon"
	"github.com/tomtom215/watchpost/internal/events"
	"github.com/tomtom215/watchpost/internal/journal"
	"github.com/tomtom215/watchpost/internal/logging"
	"github.com/tomtom215/watchpost/internal/signals"
	"github.com/tomtom215/watchpost/internal/supervisor"
	"github.com/tomtom215/watchpost/internal/supervisor/services"
	ws "github.com/tomtom215/watchpost/internal/websocket"
)

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		logging.Error().Err(err).Msg("Invalid command line")
		os.Exit(2)
	}

	load := opts.loader()
	cfg, err := load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	if cfg.Daemon.Daemon && !daemon.Detached() {
		pid, err := daemon.Detach()
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to daemonize")
		}
		logging.Info().Int("pid", pid).Msg("Daemon started")
		return
	}

	logging.Info().
		Str("config", cfg.Path).
		Int("cameras", len(cfg.Cameras)).
		Bool("setup_mode", cfg.Daemon.SetupMode).
		Msg("Starting Watchpost")

	if err := run(cfg, load); err != nil {
		logging.Error().Err(err).Msg("Watchpost stopped with an error")
		os.Exit(1)
	}
	logging.Info().Msg("Watchpost stopped")
}

// run builds the service tree and serves it until the camera controller
// finishes.
//
//nolint:gocyclo // sequential wiring
func run(cfg *config.Config, load func() (*config.Config, error)) error {
	bus := events.NewBus(cfg.Events.BufferSize)
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing event bus")
		}
	}()

	hub := ws.NewHub()
	dispatcher := events.NewDispatcher(bus, hub)

	var eventStore api.EventStore
	var jrnl *journal.Journal
	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal)
		if err != nil {
			return err
		}
		defer func() {
			if err := j.Close(); err != nil {
				logging.Warn().Err(err).Msg("Error closing journal")
			}
		}()
		jrnl, eventStore = j, j
		dispatcher.AddSink(j)
	}

	if fwd := initForwarder(cfg.Events); fwd != nil {
		defer func() {
			if err := fwd.Close(); err != nil {
				logging.Warn().Err(err).Msg("Error closing NATS forwarder")
			}
		}()
		dispatcher.AddSink(fwd)
	}

	runtime := capture.NewRuntime(nil)
	relay := signals.NewRelay()
	ctrl, err := supervisor.New(supervisor.Options{
		Load:    load,
		Runtime: runtime,
		Relay:   relay,
		Emitter: bus,
		Collaborators: []supervisor.Collaborator{
			&daemon.Logging{},
			&daemon.PIDFile{},
			daemon.NewConfigWatch(relay),
		},
		OnStatus: hub.PublishStatus,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		exitMu  sync.Mutex
		exitErr error
	)
	onExit := func(err error) {
		exitMu.Lock()
		exitErr = err
		exitMu.Unlock()
		cancel()
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Daemon.ShutdownTimeout,
	})
	tree.AddCoreService(services.NewControllerService(gatedRunner{ctrl: ctrl, ready: dispatcher.Ready()}, onExit))
	tree.AddMessagingService(dispatcher)
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	if jrnl != nil {
		tree.AddMessagingService(jrnl)
	}

	if cfg.Control.Enabled {
		handler := api.NewHandler(api.Deps{
			Controller: ctrl,
			Journal:    eventStore,
			Snapshots:  runtime,
			Hub:        hub,
		}, api.NewMiddleware(api.MiddlewareConfigFromControl(cfg.Control)))

		server := &http.Server{
			Addr:         cfg.Control.Addr,
			Handler:      api.NewRouter(handler).Setup(),
			ReadTimeout:  cfg.Control.ReadTimeout,
			WriteTimeout: cfg.Control.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		}
		tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Daemon.ShutdownTimeout))
	}

	sub := relay.Notify()
	defer sub.Stop()

	for err := range tree.ServeBackground(ctx) {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	exitMu.Lock()
	defer exitMu.Unlock()
	return exitErr
}

// gatedRunner holds the controller back until the dispatcher listens, so the
// startup events reach the journal and websocket clients.
type gatedRunner struct {
	ctrl  *supervisor.Controller
	ready <-chan struct{}
}

func (g gatedRunner) Run(ctx context.Context) error {
	select {
	case <-g.ready:
	case <-ctx.Done():
		return nil
	}
	return g.ctrl.Run(ctx)
}

// initForwarder returns the NATS forwarder when one is configured and this
// binary was built with it.
func initForwarder(cfg config.EventsConfig) *events.Forwarder {
	if cfg.NATSURL == "" && !cfg.NATSEmbedded {
		return nil
	}

	fwd, err := events.NewForwarder(events.ForwarderConfig{
		URL:      cfg.NATSURL,
		Subject:  cfg.NATSSubject,
		Embedded: cfg.NATSEmbedded,
		Port:     cfg.NATSPort,
	})
	if errors.Is(err, events.ErrNATSNotCompiled) {
		logging.Warn().Msg("NATS forwarding configured but not compiled in (build with -tags=nats)")
		return nil
	}
	if err != nil {
		logging.Error().Err(err).Msg("NATS forwarder unavailable, continuing without it")
		return nil
	}
	logging.Info().Str("url", fwd.URL()).Str("subject", cfg.NATSSubject).Msg("Forwarding lifecycle events to NATS")
	return fwd
}
