// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package config

import "time"

// Config is the complete daemon configuration.
type Config struct {
	Daemon   DaemonConfig   `koanf:"daemon"`
	Logging  LoggingConfig  `koanf:"logging"`
	Control  ControlConfig  `koanf:"control"`
	Journal  JournalConfig  `koanf:"journal"`
	Events   EventsConfig   `koanf:"events"`
	Defaults CameraConfig   `koanf:"defaults"`
	Cameras  []CameraConfig `koanf:"cameras" validate:"dive"`

	// Path is the file the configuration was read from, empty when none was found.
	Path string `koanf:"-"`
}

// DaemonConfig controls process-level behaviour.
type DaemonConfig struct {
	// Daemon detaches from the terminal at startup.
	Daemon bool `koanf:"daemon"`

	// PIDFile is written at startup and removed on final shutdown (not on reload).
	PIDFile string `koanf:"pid_file"`

	// SetupMode forces console logging at debug level and never daemonizes.
	SetupMode bool `koanf:"setup_mode"`

	// TickInterval is the supervision period. Watchdog timeouts are counted in ticks.
	TickInterval time.Duration `koanf:"tick_interval" validate:"gt=0"`

	// RestartDelay is the pause between teardown and startup on reload.
	RestartDelay time.Duration `koanf:"restart_delay" validate:"gte=0"`

	// ReloadOnChange reloads when the config file changes on disk.
	ReloadOnChange bool `koanf:"reload_on_change"`

	// Pause starts every camera with detection paused.
	Pause bool `koanf:"pause"`

	// ShutdownTimeout bounds how long ancillary services get to stop.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// LoggingConfig configures the logging package.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"loglevel"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
	File   string `koanf:"file"`
}

// ControlConfig configures the web control surface.
type ControlConfig struct {
	Enabled           bool          `koanf:"enabled"`
	Addr              string        `koanf:"addr" validate:"omitempty,hostname_port"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gte=0"`
	ReadTimeout       time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout      time.Duration `koanf:"write_timeout" validate:"gt=0"`
}

// JournalConfig configures the lifecycle event journal.
type JournalConfig struct {
	Enabled bool `koanf:"enabled"`

	// Path of the badger directory. Empty keeps the journal in memory.
	Path string `koanf:"path"`

	// Retention is the TTL of each journal entry.
	Retention time.Duration `koanf:"retention" validate:"gt=0"`

	// MaxList caps how many entries one API listing returns.
	MaxList int `koanf:"max_list" validate:"gte=1"`
}

// EventsConfig configures the lifecycle event bus.
type EventsConfig struct {
	// BufferSize is the per-subscriber buffer of the in-process bus.
	BufferSize int64 `koanf:"buffer_size" validate:"gte=0"`

	// NATSURL forwards every lifecycle event to NATS when set.
	// Only honoured by binaries built with -tags=nats.
	NATSURL string `koanf:"nats_url" validate:"omitempty,url"`

	// NATSSubject is the subject events are forwarded to.
	NATSSubject string `koanf:"nats_subject"`

	// NATSEmbedded starts an in-process NATS server on NATSPort and forwards to it.
	NATSEmbedded bool `koanf:"nats_embedded"`
	NATSPort     int  `koanf:"nats_port" validate:"gte=-1,lte=65535"`
}

// CameraConfig is the per-camera configuration. The zero value is never used
// directly: cameras are always merged over the defaults section.
type CameraConfig struct {
	// ID is the requested camera id. Zero means "use the camera's position".
	// Ids above 32000 or duplicated ids make the daemon fall back to positions.
	ID   int    `koanf:"camera_id" json:"camera_id" validate:"gte=0"`
	Name string `koanf:"name" json:"name,omitempty"`

	// NetcamURL is polled for JPEG snapshots. Empty selects the test pattern source.
	NetcamURL string `koanf:"netcam_url" json:"netcam_url,omitempty" validate:"omitempty,url"`

	// NetcamHighURL is an optional high resolution stream fetched by its own sub-thread.
	NetcamHighURL string `koanf:"netcam_high_url" json:"netcam_high_url,omitempty" validate:"omitempty,url"`

	NetcamTimeout         time.Duration `koanf:"netcam_timeout" json:"netcam_timeout" validate:"gt=0"`
	NetcamBreakerFailures uint32        `koanf:"netcam_breaker_failures" json:"netcam_breaker_failures" validate:"gte=1"`
	NetcamBreakerCooldown time.Duration `koanf:"netcam_breaker_cooldown" json:"netcam_breaker_cooldown" validate:"gt=0"`

	FrameRate int `koanf:"framerate" json:"framerate" validate:"gte=1,lte=100"`

	// WatchdogTimeout is the soft timeout in ticks.
	WatchdogTimeout int `koanf:"watchdog_tmo" json:"watchdog_tmo" validate:"gte=1"`

	// WatchdogKill is the hard timeout in ticks past the soft timeout.
	WatchdogKill int `koanf:"watchdog_kill" json:"watchdog_kill" validate:"gte=0"`

	// SnapshotInterval takes a snapshot every N seconds. Zero disables it.
	SnapshotInterval int `koanf:"snapshot_interval" json:"snapshot_interval" validate:"gte=0"`
}

// defaultCamera returns the built-in camera template.
func defaultCamera() CameraConfig {
	return CameraConfig{
		NetcamTimeout:         10 * time.Second,
		NetcamBreakerFailures: 5,
		NetcamBreakerCooldown: 30 * time.Second,
		FrameRate:             15,
		WatchdogTimeout:       30,
		WatchdogKill:          10,
		SnapshotInterval:      0,
	}
}

// defaultConfig returns a Config with every default applied.
func defaultConfig() *Config {
	return &Config{
		Daemon: DaemonConfig{
			TickInterval:    time.Second,
			RestartDelay:    2 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Control: ControlConfig{
			Enabled:           true,
			Addr:              "127.0.0.1:8080",
			RateLimitRequests: 60,
			RateLimitWindow:   time.Minute,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
		},
		Journal: JournalConfig{
			Enabled:   true,
			Retention: 7 * 24 * time.Hour,
			MaxList:   500,
		},
		Events: EventsConfig{
			BufferSize:  256,
			NATSSubject: "watchpost.lifecycle",
			NATSPort:    4222,
		},
		Defaults: defaultCamera(),
	}
}

// Default returns the built-in configuration with the implicit camera.
func Default() *Config {
	cfg := defaultConfig()
	cfg.Cameras = []CameraConfig{cfg.Defaults}
	return cfg
}
