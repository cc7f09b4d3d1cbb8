// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

/*
Package config loads the daemon configuration with Koanf v2.

# Configuration Sources

Sources are layered, later ones winning:
  - Built-in defaults (defaultConfig)
  - YAML file: the -c flag, WATCHPOST_CONFIG, or the first of DefaultConfigPaths
  - Environment variables with the WATCHPOST_ prefix (see envTransformFunc)

# Cameras

The `defaults` section is the camera template. Every entry of `cameras` is
merged over it, so a camera only lists what differs:

	defaults:
	  watchdog_tmo: 30
	  watchdog_kill: 10
	  framerate: 15
	cameras:
	  - name: driveway
	    netcam_url: http://10.0.0.21/snapshot.jpg
	  - name: garage
	    camera_id: 7
	    snapshot_interval: 60

When `cameras` is empty a single camera built from `defaults` is run.
Cameras added at runtime through the control API are also built from
`defaults`.

# Reload

WatchConfigFile reports changes to the loaded file. The daemon treats a
change like SIGHUP: everything is stopped and started again from a fresh
Load.
*/
package config
