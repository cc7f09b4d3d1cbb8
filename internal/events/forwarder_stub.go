// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

//go:build !nats

package events

import "context"

// Forwarder is a placeholder in binaries built without -tags=nats.
type Forwarder struct{}

var _ Sink = (*Forwarder)(nil)

// NewForwarder always fails without -tags=nats.
func NewForwarder(ForwarderConfig) (*Forwarder, error) {
	return nil, ErrNATSNotCompiled
}

// Name implements Sink.
func (f *Forwarder) Name() string { return "nats" }

// URL returns "".
func (f *Forwarder) URL() string { return "" }

// Handle implements Sink.
func (f *Forwarder) Handle(context.Context, Event) error { return ErrNATSNotCompiled }

// Close implements io.Closer.
func (f *Forwarder) Close() error { return nil }
