// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/watchpost/internal/logging"
	"github.com/tomtom215/watchpost/internal/metrics"
)

// Topic is the in-process topic lifecycle events are published on.
const Topic = "camera.lifecycle"

// ErrBusClosed is returned by Subscribe after Close.
var ErrBusClosed = errors.New("event bus closed")

// Bus is the in-process lifecycle event bus backed by a watermill GoChannel.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter

	mu     sync.RWMutex
	closed bool
}

var _ Emitter = (*Bus)(nil)

// NewBus creates a bus. bufferSize is the per-subscriber output buffer.
func NewBus(bufferSize int64) *Bus {
	logger := logging.NewWatermillAdapter()
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: bufferSize,
		}, logger),
		logger: logger,
	}
}

// Emit publishes e. Failures are logged and counted, never returned: a lost
// lifecycle event must not disturb supervision.
func (b *Bus) Emit(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	payload, err := e.Marshal()
	if err != nil {
		metrics.RecordEventPublished(err)
		logging.Warn().Err(err).Str("kind", string(e.Kind)).Msg("Failed to encode lifecycle event")
		return
	}

	msg := message.NewMessage(e.ID, payload)
	msg.Metadata.Set("kind", string(e.Kind))

	err = b.pubsub.Publish(Topic, msg)
	metrics.RecordEventPublished(err)
	if err != nil {
		logging.Warn().Err(err).Str("kind", string(e.Kind)).Msg("Failed to publish lifecycle event")
	}
}

// Subscribe returns a channel of lifecycle messages that is closed when ctx
// ends or the bus is closed. Every message must be acked.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, ErrBusClosed
	}
	msgs, err := b.pubsub.Subscribe(ctx, Topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", Topic, err)
	}
	return msgs, nil
}

// Close closes the bus and every subscription.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.pubsub.Close()
}
