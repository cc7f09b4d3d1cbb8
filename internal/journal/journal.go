// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package journal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/watchpost/internal/config"
	"github.com/tomtom215/watchpost/internal/events"
	"github.com/tomtom215/watchpost/internal/logging"
	"github.com/tomtom215/watchpost/internal/metrics"
)

const (
	prefixEvent = "event:"

	defaultRetention = 7 * 24 * time.Hour
	defaultMaxList   = 500
	gcInterval       = 10 * time.Minute
	gcDiscardRatio   = 0.5
)

var (
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("journal is closed")
)

// Filter selects journal entries.
type Filter struct {
	// Limit caps the result; zero or above the configured maximum means the maximum.
	Limit int
	// CameraID selects one camera; negative means every camera.
	CameraID int
	// Kind selects one event kind; empty means every kind.
	Kind events.Kind
}

// Journal keeps recent lifecycle events in badger. Entries expire after the
// configured retention.
type Journal struct {
	db        *badger.DB
	retention time.Duration
	maxList   int
	inMemory  bool

	mu     sync.RWMutex
	closed bool
}

var _ events.Sink = (*Journal)(nil)

// Open opens the journal at cfg.Path, or an in-memory journal when the path
// is empty.
func Open(cfg config.JournalConfig) (*Journal, error) {
	inMemory := cfg.Path == ""
	opts := badger.DefaultOptions(cfg.Path)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	j := &Journal{
		db:        db,
		retention: cfg.Retention,
		maxList:   cfg.MaxList,
		inMemory:  inMemory,
	}
	if j.retention <= 0 {
		j.retention = defaultRetention
	}
	if j.maxList <= 0 {
		j.maxList = defaultMaxList
	}

	logging.Info().Str("path", cfg.Path).Bool("in_memory", inMemory).Dur("retention", j.retention).
		Msg("Journal opened")
	return j, nil
}

// eventKey orders entries by time; the event id keeps keys unique.
func eventKey(e events.Event) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", prefixEvent, e.Time.UnixNano(), e.ID))
}

func (j *Journal) checkOpen() error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return ErrClosed
	}
	return nil
}

// Append stores e.
func (j *Journal) Append(e events.Event) error {
	if err := j.checkOpen(); err != nil {
		return err
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = j.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(eventKey(e), data).WithTTL(j.retention))
	})
	if err != nil {
		return fmt.Errorf("write journal entry: %w", err)
	}
	return nil
}

// Recent returns matching entries, newest first.
func (j *Journal) Recent(ctx context.Context, f Filter) ([]events.Event, error) {
	if err := j.checkOpen(); err != nil {
		return nil, err
	}

	limit := f.Limit
	if limit <= 0 || limit > j.maxList {
		limit = j.maxList
	}

	out := make([]events.Event, 0, min(limit, 64))
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(prefixEvent)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts at the greatest key <= seek.
		seek := append([]byte(prefixEvent), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(opts.Prefix) && len(out) < limit; it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			item := it.Item()
			var e events.Event
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			})
			if err != nil {
				logging.Warn().Err(err).Str("key", string(item.Key())).Msg("Skipping undecodable journal entry")
				continue
			}
			if f.CameraID >= 0 && e.CameraID != f.CameraID {
				continue
			}
			if f.Kind != "" && e.Kind != f.Kind {
				continue
			}
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return out, nil
}

// Name implements events.Sink.
func (j *Journal) Name() string {
	return "journal"
}

// Handle implements events.Sink.
func (j *Journal) Handle(_ context.Context, e events.Event) error {
	err := j.Append(e)
	metrics.RecordJournalWrite(err)
	return err
}

// RunGC reclaims value log space until badger reports nothing to rewrite.
func (j *Journal) RunGC() error {
	if err := j.checkOpen(); err != nil {
		return err
	}
	if j.inMemory {
		return nil
	}
	for {
		err := j.db.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("journal gc: %w", err)
		}
	}
}

// Serve implements suture.Service by running value log GC periodically.
func (j *Journal) Serve(ctx context.Context) error {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := j.RunGC(); err != nil {
				if errors.Is(err, ErrClosed) {
					return nil
				}
				logging.Warn().Err(err).Msg("Journal GC failed")
			}
		}
	}
}

func (j *Journal) String() string {
	return "journal-gc"
}

// Close closes the database. Further calls return ErrClosed.
func (j *Journal) Close() error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	j.mu.Unlock()

	if err := j.db.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	logging.Info().Msg("Journal closed")
	return nil
}
