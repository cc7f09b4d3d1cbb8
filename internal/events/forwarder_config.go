// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package events

import (
	"errors"
	"time"
)

// ErrNATSNotCompiled is returned by NewForwarder in binaries built without -tags=nats.
var ErrNATSNotCompiled = errors.New("NATS forwarding not available: build with -tags=nats")

// ForwarderConfig configures the NATS forwarder.
type ForwarderConfig struct {
	// URL of an external NATS server. Ignored when Embedded is set.
	URL string

	// Subject events are published to.
	Subject string

	// Embedded starts an in-process NATS server on Host:Port and forwards to it.
	Embedded bool
	Host     string
	Port     int

	// BreakerFailures consecutive publish failures open the circuit for BreakerTimeout.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

func (c *ForwarderConfig) applyDefaults() {
	if c.Subject == "" {
		c.Subject = "watchpost.lifecycle"
	}
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.BreakerFailures == 0 {
		c.BreakerFailures = 5
	}
	if c.BreakerTimeout == 0 {
		c.BreakerTimeout = 30 * time.Second
	}
}
