// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

// Package metrics defines the daemon's Prometheus metrics.
//
// Metrics are registered with the default registry through promauto and
// served by the control surface on /metrics. Callers use the Record* and
// Set* helpers rather than touching the collectors directly.
//
// Supervisor:
//   - watchpost_workers_running: the running count (main contexts and sub-threads)
//   - watchpost_workers_configured: registry length
//   - watchpost_worker_launches_total{result}
//   - watchpost_watchdog_escalations_total{stage}
//   - watchpost_signals_processed_total{kind}, watchpost_signals_coalesced_total
//   - watchpost_topology_mutations_total{op,result}
//   - watchpost_tick_duration_seconds
//
// Capture, events and control surface metrics follow the same naming.
package metrics
