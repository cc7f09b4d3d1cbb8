// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"watchpost.yaml",
	"watchpost.yml",
	"/etc/watchpost/watchpost.yaml",
	"/etc/watchpost/watchpost.yml",
}

// ConfigPathEnvVar overrides the config file path when no explicit path is given.
const ConfigPathEnvVar = "WATCHPOST_CONFIG"

// envPrefix is the prefix of every environment variable the daemon reads.
const envPrefix = "WATCHPOST_"

// ErrConfigNotFound is returned when an explicitly requested file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// Load reads the configuration. An explicit path must exist; with an empty
// path the file is optional and searched for (see findConfigFile).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
	} else {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Layer 3: environment
	if err := k.Load(env.Provider(envPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cameras, err := mergeCameras(k)
	if err != nil {
		return nil, err
	}
	cfg.Cameras = cameras
	if len(cfg.Cameras) == 0 {
		cfg.Cameras = []CameraConfig{cfg.Defaults}
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// mergeCameras merges every entry of the cameras list over the defaults section.
func mergeCameras(k *koanf.Koanf) ([]CameraConfig, error) {
	entries := k.Slices("cameras")
	cameras := make([]CameraConfig, 0, len(entries))

	for i, entry := range entries {
		merged := k.Cut("defaults")
		if err := merged.Merge(entry); err != nil {
			return nil, fmt.Errorf("failed to merge camera %d: %w", i, err)
		}
		var cam CameraConfig
		if err := merged.Unmarshal("", &cam); err != nil {
			return nil, fmt.Errorf("failed to unmarshal camera %d: %w", i, err)
		}
		cameras = append(cameras, cam)
	}
	return cameras, nil
}

// findConfigFile returns the first config file found, or "" if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when set from the environment.
var sliceConfigPaths = []string{
	"control.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps WATCHPOST_* variables (prefix stripped, lower-cased) to config paths.
var envMappings = map[string]string{
	// Daemon
	"daemon":           "daemon.daemon",
	"pid_file":         "daemon.pid_file",
	"setup_mode":       "daemon.setup_mode",
	"tick_interval":    "daemon.tick_interval",
	"restart_delay":    "daemon.restart_delay",
	"reload_on_change": "daemon.reload_on_change",
	"pause":            "daemon.pause",
	"shutdown_timeout": "daemon.shutdown_timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
	"log_file":   "logging.file",

	// Control surface
	"control_enabled":     "control.enabled",
	"control_addr":        "control.addr",
	"cors_origins":        "control.cors_origins",
	"rate_limit_requests": "control.rate_limit_requests",
	"rate_limit_window":   "control.rate_limit_window",

	// Journal
	"journal_enabled":   "journal.enabled",
	"journal_path":      "journal.path",
	"journal_retention": "journal.retention",

	// Events
	"events_buffer": "events.buffer_size",
	"nats_url":      "events.nats_url",
	"nats_subject":  "events.nats_subject",
	"nats_embedded": "events.nats_embedded",
	"nats_port":     "events.nats_port",

	// Camera template
	"watchdog_tmo":      "defaults.watchdog_tmo",
	"watchdog_kill":     "defaults.watchdog_kill",
	"framerate":         "defaults.framerate",
	"snapshot_interval": "defaults.snapshot_interval",
	"netcam_url":        "defaults.netcam_url",
	"netcam_timeout":    "defaults.netcam_timeout",
}

// envTransformFunc maps an environment variable name to a koanf path.
// Unmapped variables return "" and are skipped.
//
// Examples:
//   - WATCHPOST_LOG_LEVEL -> logging.level
//   - WATCHPOST_WATCHDOG_TMO -> defaults.watchdog_tmo
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	if key == "config" {
		return ""
	}
	return envMappings[key]
}

// WatchConfigFile calls callback every time the file at path changes.
// Errors reported by the watcher are passed to onError when it is non-nil.
func WatchConfigFile(path string, callback func(), onError func(error)) (*file.File, error) {
	provider := file.Provider(path)
	err := provider.Watch(func(_ interface{}, err error) {
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		callback()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}
	return provider, nil
}
