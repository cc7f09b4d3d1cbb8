// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

//go:build nats

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/watchpost/internal/logging"
	"github.com/tomtom215/watchpost/internal/metrics"
)

// Forwarder is a Sink that republishes lifecycle events on a NATS subject.
type Forwarder struct {
	cfg       ForwarderConfig
	publisher message.Publisher
	breaker   *gobreaker.CircuitBreaker[interface{}]
	embedded  *server.Server
	url       string
}

var _ Sink = (*Forwarder)(nil)

// NewForwarder connects to NATS (starting an embedded server when asked).
func NewForwarder(cfg ForwarderConfig) (*Forwarder, error) {
	cfg.applyDefaults()
	f := &Forwarder{cfg: cfg, url: cfg.URL}

	if cfg.Embedded {
		ns, err := startEmbedded(cfg.Host, cfg.Port)
		if err != nil {
			return nil, err
		}
		f.embedded = ns
		f.url = ns.ClientURL()
	}
	if f.url == "" {
		f.shutdownEmbedded()
		return nil, fmt.Errorf("nats forwarder: no URL configured")
	}

	logger := logging.NewWatermillAdapter()
	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         f.url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		f.shutdownEmbedded()
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}
	f.publisher = pub

	f.breaker = gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:    "nats-forwarder",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("NATS forwarder circuit breaker changed state")
		},
	})

	logging.Info().Str("url", f.url).Str("subject", cfg.Subject).Bool("embedded", cfg.Embedded).
		Msg("Forwarding lifecycle events to NATS")
	return f, nil
}

func startEmbedded(host string, port int) (*server.Server, error) {
	ns, err := server.NewServer(&server.Options{
		ServerName: "watchpost-events",
		Host:       host,
		Port:       port,
		NoLog:      true,
		NoSigs:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}
	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("NATS server not ready within timeout")
	}
	return ns, nil
}

// Name implements Sink.
func (f *Forwarder) Name() string { return "nats" }

// URL returns the NATS URL events are forwarded to.
func (f *Forwarder) URL() string { return f.url }

// Handle publishes e on the configured subject.
func (f *Forwarder) Handle(_ context.Context, e Event) error {
	payload, err := e.Marshal()
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	msg := message.NewMessage(e.ID, payload)
	msg.Metadata.Set("kind", string(e.Kind))

	_, err = f.breaker.Execute(func() (interface{}, error) {
		return nil, f.publisher.Publish(f.cfg.Subject, msg)
	})
	metrics.RecordEventForwarded(err)
	return err
}

// Close closes the publisher and stops an embedded server.
func (f *Forwarder) Close() error {
	err := f.publisher.Close()
	f.shutdownEmbedded()
	return err
}

func (f *Forwarder) shutdownEmbedded() {
	if f.embedded != nil {
		f.embedded.Shutdown()
		f.embedded.WaitForShutdown()
		f.embedded = nil
	}
}
