// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Supervisor Metrics
	WorkersRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "watchpost_workers_running",
			Help: "Execution contexts currently counted as running (workers and sub-threads)",
		},
	)

	WorkersConfigured = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "watchpost_workers_configured",
			Help: "Number of cameras in the registry",
		},
	)

	WorkerLaunches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchpost_worker_launches_total",
			Help: "Worker launch attempts by result",
		},
		[]string{"result"}, // "success", "failure"
	)

	WatchdogEscalations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchpost_watchdog_escalations_total",
			Help: "Watchdog escalation steps taken",
		},
		[]string{"stage"}, // "soft_stop", "force_cancel", "subthread_reaped", "killed"
	)

	WorkerExits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchpost_worker_exits_total",
			Help: "Reaped worker executions by outcome",
		},
		[]string{"outcome"}, // "clean", "error", "killed"
	)

	SignalsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchpost_signals_processed_total",
			Help: "Relayed signals acted upon by the tick loop",
		},
		[]string{"kind"},
	)

	SignalsCoalesced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "watchpost_signals_coalesced_total",
			Help: "Signals overwritten by a later signal before the tick loop saw them",
		},
	)

	TopologyMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchpost_topology_mutations_total",
			Help: "Camera add/remove requests by outcome",
		},
		[]string{"op", "result"}, // op: "add", "remove"; result: "applied", "rejected", "deferred"
	)

	TickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "watchpost_tick_duration_seconds",
			Help:    "Time spent in one supervision tick",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
	)

	Restarts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "watchpost_restarts_total",
			Help: "Full teardown and startup cycles triggered by reload",
		},
	)

	// Capture Metrics
	FramesCaptured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchpost_frames_captured_total",
			Help: "Frames processed by capture workers",
		},
		[]string{"camera"},
	)

	SnapshotsTaken = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchpost_snapshots_total",
			Help: "Snapshots taken by capture workers",
		},
		[]string{"camera", "trigger"}, // trigger: "signal", "interval"
	)

	NetcamFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchpost_netcam_fetch_errors_total",
			Help: "Failed netcam snapshot fetches",
		},
		[]string{"camera", "reason"}, // reason: "http", "breaker_open", "status"
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchpost_events_published_total",
			Help: "Lifecycle events published to the event bus",
		},
		[]string{"result"},
	)

	EventsForwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchpost_events_forwarded_total",
			Help: "Lifecycle events forwarded to NATS",
		},
		[]string{"result"},
	)

	JournalWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchpost_journal_writes_total",
			Help: "Lifecycle journal writes",
		},
		[]string{"result"},
	)

	// Control Surface Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchpost_api_requests_total",
			Help: "Control API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "watchpost_api_request_duration_seconds",
			Help:    "Control API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "watchpost_websocket_connections",
			Help: "Connected status stream clients",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "watchpost_websocket_messages_sent_total",
			Help: "Messages written to status stream clients",
		},
	)
)

func resultLabel(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// SetRunning publishes the running count.
func SetRunning(n int) {
	WorkersRunning.Set(float64(n))
}

// SetConfigured publishes the registry length.
func SetConfigured(n int) {
	WorkersConfigured.Set(float64(n))
}

// RecordLaunch records a worker launch attempt.
func RecordLaunch(err error) {
	WorkerLaunches.WithLabelValues(resultLabel(err)).Inc()
}

// RecordEscalation records one watchdog escalation step.
func RecordEscalation(stage string) {
	WatchdogEscalations.WithLabelValues(stage).Inc()
}

// RecordExit records a reaped worker execution.
func RecordExit(killed bool, err error) {
	switch {
	case killed:
		WorkerExits.WithLabelValues("killed").Inc()
	case err != nil:
		WorkerExits.WithLabelValues("error").Inc()
	default:
		WorkerExits.WithLabelValues("clean").Inc()
	}
}

// RecordSignal records a signal acted upon, and any that were coalesced away.
func RecordSignal(kind string, coalesced int64) {
	SignalsProcessed.WithLabelValues(kind).Inc()
	if coalesced > 0 {
		SignalsCoalesced.Add(float64(coalesced))
	}
}

// RecordTopology records an add or remove request outcome.
func RecordTopology(op, result string) {
	TopologyMutations.WithLabelValues(op, result).Inc()
}

// RecordTick records the duration of one supervision tick.
func RecordTick(d time.Duration) {
	TickDuration.Observe(d.Seconds())
}

// RecordRestart records a full restart cycle.
func RecordRestart() {
	Restarts.Inc()
}

// RecordFrame records one processed frame.
func RecordFrame(cameraID int) {
	FramesCaptured.WithLabelValues(strconv.Itoa(cameraID)).Inc()
}

// RecordSnapshot records a snapshot.
func RecordSnapshot(cameraID int, trigger string) {
	SnapshotsTaken.WithLabelValues(strconv.Itoa(cameraID), trigger).Inc()
}

// RecordNetcamError records a failed netcam fetch.
func RecordNetcamError(cameraID int, reason string) {
	NetcamFetchErrors.WithLabelValues(strconv.Itoa(cameraID), reason).Inc()
}

// RecordEventPublished records a publish to the event bus.
func RecordEventPublished(err error) {
	EventsPublished.WithLabelValues(resultLabel(err)).Inc()
}

// RecordEventForwarded records a forward to NATS.
func RecordEventForwarded(err error) {
	EventsForwarded.WithLabelValues(resultLabel(err)).Inc()
}

// RecordJournalWrite records a journal write.
func RecordJournalWrite(err error) {
	JournalWrites.WithLabelValues(resultLabel(err)).Inc()
}

// RecordAPIRequest records a control API request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
