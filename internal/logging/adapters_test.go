// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

func TestSlogHandler(t *testing.T) {
	original := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	defer zerolog.SetGlobalLevel(original)

	t.Run("writes attributes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf)))

		logger.Warn("service restarted", "service", "controller", "attempt", 2)

		output := buf.String()
		for _, want := range []string{`"level":"warn"`, `"service":"controller"`, `"attempt":2`, "service restarted"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected %s in output: %s", want, output)
			}
		}
	})

	t.Run("groups prefix keys", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf))).WithGroup("tree")

		logger.Info("backoff", slog.String("name", "core"))

		if !strings.Contains(buf.String(), `"tree.name":"core"`) {
			t.Errorf("expected grouped key in output: %s", buf.String())
		}
	})

	t.Run("respects logger level", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewSlogHandlerWithLogger(zerolog.New(&buf).Level(zerolog.ErrorLevel))
		logger := slog.New(handler)

		logger.Info("dropped")

		if buf.Len() != 0 {
			t.Errorf("expected no output, got: %s", buf.String())
		}
	})
}

func TestWatermillAdapter(t *testing.T) {
	original := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	defer zerolog.SetGlobalLevel(original)

	var buf bytes.Buffer
	adapter := NewWatermillAdapterWithLogger(zerolog.New(&buf))

	adapter.With(watermill.LogFields{"topic": "camera.lifecycle"}).
		Error("publish failed", errors.New("closed"), watermill.LogFields{"uuid": "abc"})

	output := buf.String()
	for _, want := range []string{`"topic":"camera.lifecycle"`, `"uuid":"abc"`, `"error":"closed"`, "publish failed"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output: %s", want, output)
		}
	}
}
