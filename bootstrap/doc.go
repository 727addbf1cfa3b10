// Package bootstrap brings the local Dash application from an unknown
// state to a verified-reachable API endpoint.
//
// Dash only serves its HTTP API when the integration is explicitly
// enabled, and it binds to a dynamically chosen loopback port that it
// records in a per-user status file. The Coordinator composes five
// collaborators into one idempotent "give me a working base URL"
// operation:
//
//   - ProcessProbe: is a Dash process running right now?
//   - Launcher: start a distribution in the background.
//   - Enabler: persist the API-server preference for a distribution.
//   - PortResolver: read the bound port from the status file.
//   - HealthChecker: verify the API answers on a candidate port.
//
// # Resolution Sequence
//
// Resolve probes the process table first. If Dash is down it tries each
// configured distribution launcher in order, waits a fixed settle delay,
// and re-probes; a still-absent process is the launch failure exit. With
// Dash running, a resolvable and healthy port is the fast path. Failing
// that, the API integration is assumed disabled: the preference is
// written for every known distribution (the running instance's
// distribution cannot be reliably told apart, and the write is
// idempotent), a second settle delay passes, and port resolution plus
// health check are retried exactly once. A second miss is the enable
// failure exit, with a message pointing at Dash's settings.
//
// # Idempotence
//
// Nothing is cached between calls: Dash may restart or rebind between
// tool invocations, so every Resolve re-derives the full state from the
// process table, the status file, and a live probe. Each step is safe to
// repeat, so concurrent or abandoned resolutions leave no inconsistent
// state behind.
package bootstrap
