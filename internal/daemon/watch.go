// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package daemon

import (
	"context"
	"sync"

	"github.com/knadh/koanf/providers/file"

	"github.com/tomtom215/watchpost/internal/config"
	"github.com/tomtom215/watchpost/internal/logging"
	"github.com/tomtom215/watchpost/internal/signals"
)

// Raiser receives actions; *signals.Relay implements it.
type Raiser interface {
	Raise(kind signals.Kind)
}

// ConfigWatch raises Reload when the configuration file changes.
type ConfigWatch struct {
	relay Raiser

	mu      sync.Mutex
	watcher *file.File
}

// NewConfigWatch creates a watcher that raises on relay.
func NewConfigWatch(relay Raiser) *ConfigWatch {
	return &ConfigWatch{relay: relay}
}

// Name implements supervisor.Collaborator.
func (w *ConfigWatch) Name() string { return "config-watch" }

// Start watches cfg.Path when daemon.reload_on_change is set. Watch errors
// are logged and leave the daemon running without reloads.
func (w *ConfigWatch) Start(_ context.Context, cfg *config.Config) error {
	if !cfg.Daemon.ReloadOnChange || cfg.Path == "" {
		return nil
	}

	watcher, err := config.WatchConfigFile(cfg.Path, func() {
		logging.Info().Str("path", cfg.Path).Msg("Configuration file changed, reloading")
		w.relay.Raise(signals.Reload)
	}, func(err error) {
		logging.Warn().Err(err).Str("path", cfg.Path).Msg("Configuration watch error")
	})
	if err != nil {
		logging.Warn().Err(err).Msg("Reload on change disabled")
		return nil
	}

	w.mu.Lock()
	w.watcher = watcher
	w.mu.Unlock()
	logging.Debug().Str("path", cfg.Path).Msg("Watching configuration file")
	return nil
}

// Stop ends the watch. Startup after a reload starts a new one.
func (w *ConfigWatch) Stop(_ context.Context, _ bool) error {
	w.mu.Lock()
	watcher := w.watcher
	w.watcher = nil
	w.mu.Unlock()

	if watcher == nil {
		return nil
	}
	return watcher.Unwatch()
}
