// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/watchpost/internal/camera"
	"github.com/tomtom215/watchpost/internal/config"
	"github.com/tomtom215/watchpost/internal/logging"
	"github.com/tomtom215/watchpost/internal/metrics"
)

// maxFrameSize bounds a single snapshot download.
const maxFrameSize = 16 << 20

// ErrBadNetcamURL is returned for a netcam URL that is not http or https.
var ErrBadNetcamURL = errors.New("netcam url must be http or https")

// fetcher polls one URL on its own sub-thread and keeps the latest frame.
type fetcher struct {
	name     string
	url      string
	cameraID int
	client   *http.Client
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker[Frame]

	mu     sync.Mutex
	seq    uint64
	latest Frame
	notify chan struct{}
}

func newFetcher(name, rawURL string, cameraID int, cfg config.CameraConfig, transport http.RoundTripper) *fetcher {
	f := &fetcher{
		name:     name,
		url:      rawURL,
		cameraID: cameraID,
		client:   &http.Client{Timeout: cfg.NetcamTimeout, Transport: transport},
		limiter:  rate.NewLimiter(rate.Limit(max(cfg.FrameRate, 1)), 1),
		notify:   make(chan struct{}, 1),
	}
	f.breaker = gobreaker.NewCircuitBreaker[Frame](gobreaker.Settings{
		Name:        fmt.Sprintf("camera%d-%s", cameraID, name),
		MaxRequests: 1,
		Timeout:     cfg.NetcamBreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.NetcamBreakerFailures
		},
		OnStateChange: func(breaker string, from, to gobreaker.State) {
			logging.Warn().Int("camera_id", cameraID).Str("breaker", breaker).
				Str("from", from.String()).Str("to", to.String()).
				Msg("Netcam circuit breaker changed state")
		},
	})
	return f
}

// run is the sub-thread body.
func (f *fetcher) run(ctx context.Context, _ <-chan struct{}) error {
	for {
		if err := f.limiter.Wait(ctx); err != nil {
			return ctx.Err()
		}

		frame, err := f.breaker.Execute(func() (Frame, error) {
			return f.fetch(ctx)
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			reason := "request"
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				reason = "breaker_open"
			} else {
				logging.Debug().Err(err).Int("camera_id", f.cameraID).Str("source", f.name).Msg("Netcam fetch failed")
			}
			metrics.RecordNetcamError(f.cameraID, reason)
			continue
		}
		f.publish(frame)
	}
}

func (f *fetcher) fetch(ctx context.Context) (Frame, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return Frame{}, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return Frame{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Frame{}, fmt.Errorf("netcam %s: unexpected status %d", f.name, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFrameSize))
	if err != nil {
		return Frame{}, fmt.Errorf("netcam %s: read body: %w", f.name, err)
	}
	if len(data) == 0 {
		return Frame{}, fmt.Errorf("netcam %s: empty frame", f.name)
	}

	ctype := resp.Header.Get("Content-Type")
	if ctype == "" {
		ctype = "image/jpeg"
	}
	return Frame{Time: time.Now(), ContentType: ctype, Data: data}, nil
}

func (f *fetcher) publish(frame Frame) {
	f.mu.Lock()
	f.seq++
	frame.Seq = f.seq
	f.latest = frame
	f.mu.Unlock()

	select {
	case f.notify <- struct{}{}:
	default:
	}
}

// newer returns the latest frame if its sequence is above seq.
func (f *fetcher) newer(seq uint64) (Frame, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seq <= seq {
		return Frame{}, false
	}
	return f.latest, true
}

// netcamSource serves frames from the primary fetcher; the optional high
// resolution fetcher only feeds snapshots.
type netcamSource struct {
	primary *fetcher
	high    *fetcher
	timeout time.Duration
	subs    []*camera.Subthread
	lastSeq uint64

	closeOnce sync.Once
}

func validateNetcamURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadNetcamURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrBadNetcamURL, raw)
	}
	return nil
}

// openNetcam starts one fetch sub-thread per configured URL on w.
func openNetcam(ctx context.Context, w *camera.Worker, transport http.RoundTripper) (*netcamSource, error) {
	cfg := w.Config()
	if err := validateNetcamURL(cfg.NetcamURL); err != nil {
		return nil, err
	}
	if cfg.NetcamHighURL != "" {
		if err := validateNetcamURL(cfg.NetcamHighURL); err != nil {
			return nil, err
		}
	}

	s := &netcamSource{
		primary: newFetcher("netcam", cfg.NetcamURL, w.ID(), cfg, transport),
		timeout: cfg.NetcamTimeout,
	}
	s.subs = append(s.subs, w.Spawn(ctx, "netcam", s.primary.run))
	if cfg.NetcamHighURL != "" {
		s.high = newFetcher("netcam_high", cfg.NetcamHighURL, w.ID(), cfg, transport)
		s.subs = append(s.subs, w.Spawn(ctx, "netcam_high", s.high.run))
	}
	return s, nil
}

func (s *netcamSource) Next(ctx context.Context) (Frame, error) {
	timer := time.NewTimer(s.timeout)
	defer timer.Stop()
	for {
		if frame, ok := s.primary.newer(s.lastSeq); ok {
			s.lastSeq = frame.Seq
			return frame, nil
		}
		select {
		case <-ctx.Done():
			return Frame{}, ctx.Err()
		case <-s.primary.notify:
		case <-timer.C:
			return Frame{}, ErrNoFrame
		}
	}
}

func (s *netcamSource) Best() (Frame, bool) {
	if s.high != nil {
		if frame, ok := s.high.newer(0); ok {
			return frame, true
		}
	}
	return s.primary.newer(0)
}

// Close cancels the fetch sub-threads. They leave the running count as they
// exit.
func (s *netcamSource) Close() error {
	s.closeOnce.Do(func() {
		for _, sub := range s.subs {
			sub.Thread().Cancel()
		}
	})
	return nil
}
