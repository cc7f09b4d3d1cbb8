// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package supervisor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/watchpost/internal/camera"
	"github.com/tomtom215/watchpost/internal/config"
	"github.com/tomtom215/watchpost/internal/events"
	"github.com/tomtom215/watchpost/internal/logging"
	"github.com/tomtom215/watchpost/internal/metrics"
	"github.com/tomtom215/watchpost/internal/signals"
)

// Collaborator is an external service started with each run of the
// controller and stopped at its end. restarting is true when the controller
// is about to start again after a reload.
type Collaborator interface {
	Name() string
	Start(ctx context.Context, cfg *config.Config) error
	Stop(ctx context.Context, restarting bool) error
}

// Options configures a Controller.
type Options struct {
	// Load returns the configuration for a run. Called at every startup.
	Load func() (*config.Config, error)

	// Runtime starts and releases worker execution contexts.
	Runtime Runtime

	// Relay delivers pending actions. A new Relay is created when nil.
	Relay *signals.Relay

	// Emitter receives lifecycle events. Defaults to events.Nop.
	Emitter events.Emitter

	// Collaborators are started in order and stopped in reverse order.
	Collaborators []Collaborator

	// OnStatus is called at the end of every tick with the current statuses.
	OnStatus func([]camera.Status)
}

// Controller runs the supervision loop: startup, ticks, restart or shutdown.
type Controller struct {
	opts  Options
	relay *signals.Relay
	emit  events.Emitter

	// reg is replaced at every startup; control requests read it atomically.
	reg atomic.Pointer[Registry]

	mu      sync.Mutex
	cfg     *config.Config
	cancel  context.CancelFunc
	launch  *launcher
	wd      *watchdog
	topo    *topology
	started bool
}

// New creates a Controller.
func New(opts Options) (*Controller, error) {
	if opts.Load == nil {
		return nil, errors.New("supervisor: Load is required")
	}
	if opts.Runtime == nil {
		return nil, errors.New("supervisor: Runtime is required")
	}
	if opts.Relay == nil {
		opts.Relay = signals.NewRelay()
	}
	if opts.Emitter == nil {
		opts.Emitter = events.Nop
	}
	return &Controller{opts: opts, relay: opts.Relay, emit: opts.Emitter}, nil
}

// Relay returns the relay the controller drains.
func (c *Controller) Relay() *signals.Relay {
	return c.relay
}

// Run supervises until termination. A reload tears everything down and runs
// startup again. Cancelling ctx is treated as a Terminate action so running
// workers are still drained.
func (c *Controller) Run(ctx context.Context) error {
	for {
		if err := c.Startup(); err != nil {
			return err
		}

		c.loop(ctx)
		if !c.registry().FinishAll() {
			logging.Warn().Msg("No camera is running, stopping")
		}

		restarting := c.registry().RestartAll() && ctx.Err() == nil
		c.shutdown(restarting)
		if !restarting {
			return nil
		}

		metrics.RecordRestart()
		c.emit.Emit(events.New(events.KindRestart))
		logging.Info().Dur("delay", c.config().Daemon.RestartDelay).Msg("Restarting supervisor")

		select {
		case <-time.After(c.config().Daemon.RestartDelay):
		case <-ctx.Done():
			return nil
		}
	}
}

// Startup loads the configuration, starts collaborators, builds the registry
// and launches every eligible worker. Run calls it; tests that drive Tick
// directly call it themselves.
func (c *Controller) Startup() error {
	cfg, err := c.opts.Load()
	if err != nil {
		prev := c.config()
		if prev == nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		logging.Error().Err(err).Msg("Failed to reload configuration, keeping previous")
		cfg = prev
	}

	for _, collab := range c.opts.Collaborators {
		if err := collab.Start(context.Background(), cfg); err != nil {
			logging.Error().Err(err).Str("collaborator", collab.Name()).Msg("Failed to start collaborator")
		}
	}

	reg := NewRegistry(cfg.Defaults, cfg.Cameras)
	if reg.normalizeIDs() {
		logging.Error().Int("cameras", reg.Len()).
			Msg("Camera ids are duplicated or out of range, using positions instead")
		c.emit.Emit(events.New(events.KindIDsRenumbered))
	}
	for _, w := range reg.Snapshot() {
		w.SetPaused(cfg.Daemon.Pause)
	}

	workerCtx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	c.cfg = cfg
	c.cancel = cancel
	c.launch = &launcher{reg: reg, runtime: c.opts.Runtime, emit: c.emit, ctx: workerCtx}
	c.wd = &watchdog{reg: reg, runtime: c.opts.Runtime, emit: c.emit}
	c.topo = &topology{reg: reg, runtime: c.opts.Runtime, emit: c.emit}
	c.started = true
	c.mu.Unlock()
	c.reg.Store(reg)

	logging.Info().Int("cameras", reg.Len()).Str("config", cfg.Path).Msg("Supervisor starting")
	startup := events.New(events.KindStartup)
	startup.Detail = fmt.Sprintf("%d cameras", reg.Len())
	c.emit.Emit(startup)

	c.launch.launchEligible()
	return nil
}

func (c *Controller) loop(ctx context.Context) {
	ticker := time.NewTicker(c.config().Daemon.TickInterval)
	defer ticker.Stop()

	done := ctx.Done()
	for {
		if c.Tick() {
			return
		}
		select {
		case <-ticker.C:
		case <-done:
			logging.Info().Msg("Context cancelled, terminating cameras")
			c.relay.Raise(signals.Terminate)
			done = nil
		}
	}
}

// Tick runs one supervision pass and reports whether the loop should end.
func (c *Controller) Tick() bool {
	start := time.Now()
	reg := c.registry()

	c.launch.launchEligible()

	for i, w := range reg.Snapshot() {
		c.wd.check(w, i)
	}

	c.handleSignal(reg)
	c.topo.apply()

	if c.opts.OnStatus != nil {
		c.opts.OnStatus(reg.Statuses())
	}
	metrics.RecordTick(time.Since(start))

	return finished(reg)
}

// finished reports whether the loop should end. A worker with a live
// execution context, or one waiting to be launched again, keeps the loop
// going. Otherwise the loop ends once termination was requested or nothing
// at all is running, sub-threads included.
func finished(reg *Registry) bool {
	for _, w := range reg.Snapshot() {
		if w.State().Active() || eligible(reg, w) {
			return false
		}
	}
	return reg.FinishAll() || reg.Running() == 0
}

// shutdown applies a leftover add request, stops collaborators in reverse
// order and cancels whatever worker contexts remain.
func (c *Controller) shutdown(restarting bool) {
	reg := c.registry()
	if reg.PendingAdd() {
		c.topo.add()
	}

	cfg := c.config()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
	defer cancel()
	for i := len(c.opts.Collaborators) - 1; i >= 0; i-- {
		collab := c.opts.Collaborators[i]
		if err := collab.Stop(ctx, restarting); err != nil {
			logging.Warn().Err(err).Str("collaborator", collab.Name()).Msg("Collaborator did not stop cleanly")
		}
	}

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()

	if n := reg.Running(); n > 0 {
		logging.Warn().Int("running", n).Msg("Execution contexts still running at shutdown")
	}
	logging.Info().Bool("restarting", restarting).Msg("Supervisor stopped")
	e := events.New(events.KindShutdown)
	if restarting {
		e.Detail = "restarting"
	}
	c.emit.Emit(e)
}

func (c *Controller) registry() *Registry {
	return c.reg.Load()
}

func (c *Controller) config() *config.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Statuses returns the current worker statuses in registry order.
func (c *Controller) Statuses() ([]camera.Status, error) {
	reg := c.registry()
	if reg == nil {
		return nil, ErrNotStarted
	}
	return reg.Statuses(), nil
}

// Running returns the running count, 0 before startup.
func (c *Controller) Running() int {
	if reg := c.registry(); reg != nil {
		return reg.Running()
	}
	return 0
}

// RequestAdd asks for a camera to be added on the next tick.
func (c *Controller) RequestAdd() error {
	reg := c.registry()
	if reg == nil {
		return ErrNotStarted
	}
	return reg.RequestAdd()
}

// RequestRemove asks for the camera at position index to be removed.
func (c *Controller) RequestRemove(index int) error {
	reg := c.registry()
	if reg == nil {
		return ErrNotStarted
	}
	return reg.RequestRemove(index)
}

// Raise queues an action for the next tick.
func (c *Controller) Raise(kind signals.Kind) {
	c.relay.Raise(kind)
}
