// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package capture

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	patternWidth  = 64
	patternHeight = 48
)

// patternSource renders a bar that moves one column per frame.
type patternSource struct {
	limiter *rate.Limiter

	mu   sync.Mutex
	seq  uint64
	last Frame
}

func newPatternSource(frameRate int) *patternSource {
	if frameRate <= 0 {
		frameRate = 1
	}
	return &patternSource{limiter: rate.NewLimiter(rate.Limit(frameRate), 1)}
}

func (p *patternSource) Next(ctx context.Context) (Frame, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return Frame{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	data, err := renderPattern(int(p.seq % patternWidth))
	if err != nil {
		return Frame{}, err
	}
	p.last = Frame{Seq: p.seq, Time: time.Now(), ContentType: "image/jpeg", Data: data}
	return p.last, nil
}

func (p *patternSource) Best() (Frame, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last, p.seq > 0
}

func (p *patternSource) Close() error { return nil }

func renderPattern(barX int) ([]byte, error) {
	img := image.NewGray(image.Rect(0, 0, patternWidth, patternHeight))
	for y := 0; y < patternHeight; y++ {
		for x := 0; x < patternWidth; x++ {
			v := uint8(32)
			if x == barX || x == barX+1 {
				v = 224
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 60}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
