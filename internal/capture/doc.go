// Watchpost - Multi-Camera Surveillance Daemon
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/watchpost

/*
Package capture is the code that runs on a camera worker.

Runtime implements supervisor.Runtime. Start opens the camera's frame source
and runs the capture loop on a camera.GoThread; Release closes the source.

Sources:

  - netcam: one sub-thread per configured URL (netcam_url and, optionally,
    netcam_high_url) polls an HTTP endpoint for JPEG snapshots at the
    camera's frame rate. Requests go through a per-URL circuit breaker so a
    dead camera is not hammered. Sub-threads are registered with the worker
    through Worker.Spawn and so take part in the running count and in forced
    cancellation.
  - test pattern: used when no netcam_url is set. Generates a small JPEG
    with a moving bar at the configured frame rate.

The capture loop calls Worker.Kick for every frame, so a camera that stops
delivering frames is caught by the supervisor's watchdog. It also honours the
worker's flags: snapshot (one-shot, from the Alarm action), event stop (from
User1 and from the watchdog) and finish (exit at the next frame boundary).
Cameras with snapshot_interval > 0 additionally take a snapshot on that
period.

Snapshots are kept in memory, the latest one per camera, and served by the
control API.
*/
package capture
